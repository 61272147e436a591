package nemlig

import "github.com/shopspring/decimal"

// Product is an immutable snapshot returned by search and detail lookups.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Unit        string
	Brand       string
	Category    string
	ImageURL    string
	Description string
	InStock     bool
	Nutrition   *Nutrition
}

// Nutrition carries the per-100g declaration when the upstream response
// includes one. Values keep their upstream formatting ("1032 kJ").
type Nutrition struct {
	Energy        string
	Fat           string
	Carbohydrates string
	Protein       string
	Sugar         string
	Fiber         string
	Salt          string
}

// SearchResult echoes the query alongside the products in upstream relevance
// order. Page and PageSize are request echoes, not upstream guarantees: the
// discovered endpoint takes a flat "take" count and no real page parameter.
type SearchResult struct {
	Query    string
	Products []Product
	Total    int
	Page     int
	PageSize int
}

// Cart is rebuilt in full from whichever basket response most recently
// touched it; there is no client-side incremental state.
type Cart struct {
	Items      []CartItem
	TotalPrice decimal.Decimal
	ItemCount  int
}

type CartItem struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Order is the history summary row; OrderDetail is the expanded form
// fetched with a second call.
type Order struct {
	ID              string
	OrderNumber     string
	OrderDate       string
	Status          OrderStatus
	Total           decimal.Decimal
	SubTotal        decimal.Decimal
	DeliveryAddress string
	DeliveryTime    string
	Editable        bool
	Cancellable     bool
}

type OrderHistory struct {
	Orders []Order
	Total  int
}

type OrderDetail struct {
	Order
	ShippingPrice  decimal.Decimal
	PackagingPrice decimal.Decimal
	DepositPrice   decimal.Decimal
	CouponDiscount decimal.Decimal
	LineDiscount   decimal.Decimal
	Lines          []OrderLine
	Coupons        []CouponLine
}

type OrderLine struct {
	ProductNumber string
	Name          string
	Group         string
	Quantity      int
	UnitPrice     decimal.Decimal
	Amount        decimal.Decimal
	Discount      decimal.Decimal
	IsDeposit     bool
	CampaignName  string
}

type CouponLine struct {
	Type         string
	Name         string
	CouponNumber string
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusConfirmed  OrderStatus = "Confirmed"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// OrderStatusFromCode decodes the upstream integer status. Codes outside the
// known set decode to Pending; the status vocabulary was discovered
// empirically and failing an otherwise valid order row over a new code would
// be worse than reporting it still pending.
func OrderStatusFromCode(code int) OrderStatus {
	switch code {
	case 0:
		return OrderStatusPending
	case 1:
		return OrderStatusConfirmed
	case 2:
		return OrderStatusProcessing
	case 3:
		return OrderStatusDelivered
	case 4:
		return OrderStatusCancelled
	default:
		return OrderStatusPending
	}
}

// DeliverySlot is the contract the dispatcher depends on. The upstream
// endpoint is undiscovered; lookups fail with UNSUPPORTED_OPERATION until
// it is known.
type DeliverySlot struct {
	ID        string
	Date      string
	TimeFrom  string
	TimeTo    string
	Available bool
	Price     decimal.Decimal
}
