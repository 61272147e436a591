package nemlig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/CWeait/nemlig-mcp/pkg/errors"
)

// The wire shapes below were discovered empirically; field names vary between
// endpoint iterations and none are documented. Parsers therefore tolerate
// missing optional fields and extra unknown ones, and fail only when a field
// the model treats as mandatory (product id, order id) is absent.

// flexString decodes a JSON string or number into a string. Upstream ids are
// numeric in some payloads and quoted in others.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexInt decodes a JSON integer that occasionally arrives as a float.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

type wireAvailability struct {
	IsAvailableInStock *bool `json:"IsAvailableInStock"`
}

type wireNutrition struct {
	Energy        string `json:"Energy"`
	Fat           string `json:"Fat"`
	Carbohydrates string `json:"Carbohydrates"`
	Protein       string `json:"Protein"`
	Sugar         string `json:"Sugar"`
	Fiber         string `json:"Fiber"`
	Salt          string `json:"Salt"`
}

type wireProduct struct {
	ID             flexString        `json:"Id"`
	Name           string            `json:"Name"`
	Price          decimal.Decimal   `json:"Price"`
	UnitPriceLabel string            `json:"UnitPriceLabel"`
	Brand          string            `json:"Brand"`
	Category       string            `json:"Category"`
	PrimaryImage   string            `json:"PrimaryImage"`
	Description    string            `json:"Description"`
	Availability   *wireAvailability `json:"Availability"`
	Nutrition      *wireNutrition    `json:"NutritionalContent"`
}

func (w wireProduct) toProduct() (Product, error) {
	id := strings.TrimSpace(string(w.ID))
	if id == "" {
		return Product{}, pkgerrors.New(pkgerrors.CodeParse, "product entry is missing its id")
	}
	p := Product{
		ID:          id,
		Name:        w.Name,
		Price:       w.Price,
		Unit:        w.UnitPriceLabel,
		Brand:       w.Brand,
		Category:    w.Category,
		ImageURL:    w.PrimaryImage,
		Description: w.Description,
		// Absent availability data means the product is orderable; the
		// upstream only attaches the block when stock is constrained.
		InStock: true,
	}
	if w.Availability != nil && w.Availability.IsAvailableInStock != nil {
		p.InStock = *w.Availability.IsAvailableInStock
	}
	if w.Nutrition != nil {
		p.Nutrition = &Nutrition{
			Energy:        w.Nutrition.Energy,
			Fat:           w.Nutrition.Fat,
			Carbohydrates: w.Nutrition.Carbohydrates,
			Protein:       w.Nutrition.Protein,
			Sugar:         w.Nutrition.Sugar,
			Fiber:         w.Nutrition.Fiber,
			Salt:          w.Nutrition.Salt,
		}
	}
	return p, nil
}

type wireSearchResponse struct {
	Products         []wireProduct `json:"Products"`
	NumberOfProducts *int          `json:"NumberOfProducts"`
}

func parseSearch(body []byte, query string, page, pageSize int) (*SearchResult, error) {
	var wire wireSearchResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeParse, err, "decoding search response")
	}

	products := make([]Product, 0, len(wire.Products))
	for i, wp := range wire.Products {
		p, err := wp.toProduct()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeParse, err, fmt.Sprintf("search result %d", i))
		}
		products = append(products, p)
	}

	total := len(products)
	if wire.NumberOfProducts != nil {
		total = *wire.NumberOfProducts
	}

	return &SearchResult{
		Query:    query,
		Products: products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

type wireBasketLine struct {
	ID       flexString       `json:"Id"`
	Name     string           `json:"Name"`
	Quantity flexInt          `json:"Quantity"`
	Price    decimal.Decimal  `json:"Price"`
	Amount   *decimal.Decimal `json:"Amount"`
}

type wireBasket struct {
	Lines            []wireBasketLine `json:"Lines"`
	TotalPrice       decimal.Decimal  `json:"TotalPrice"`
	NumberOfProducts *int             `json:"NumberOfProducts"`
}

// parseBasket is the single decode path for GetBasket, AddToBasket, and
// removal (AddToBasket with quantity zero); all three endpoints return the
// same shape and must not be allowed to diverge.
func parseBasket(body []byte) (*Cart, error) {
	var wire wireBasket
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeParse, err, "decoding basket response")
	}

	items := make([]CartItem, 0, len(wire.Lines))
	for i, line := range wire.Lines {
		id := strings.TrimSpace(string(line.ID))
		if id == "" {
			return nil, pkgerrors.New(pkgerrors.CodeParse,
				fmt.Sprintf("basket line %d is missing its product id", i))
		}
		item := CartItem{
			ProductID: id,
			Name:      line.Name,
			Quantity:  int(line.Quantity),
			UnitPrice: line.Price,
		}
		if line.Amount != nil {
			item.LineTotal = *line.Amount
		} else {
			item.LineTotal = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		}
		items = append(items, item)
	}

	count := len(items)
	if wire.NumberOfProducts != nil {
		count = *wire.NumberOfProducts
	}

	return &Cart{
		Items:      items,
		TotalPrice: wire.TotalPrice,
		ItemCount:  count,
	}, nil
}

type wireOrder struct {
	ID              flexString      `json:"Id"`
	OrderNumber     flexString      `json:"OrderNumber"`
	OrderDate       string          `json:"OrderDate"`
	Status          flexInt         `json:"Status"`
	Total           decimal.Decimal `json:"Total"`
	SubTotal        decimal.Decimal `json:"SubTotal"`
	DeliveryAddress string          `json:"DeliveryAddress"`
	DeliveryTime    string          `json:"DeliveryTime"`
	IsEditable      bool            `json:"IsEditable"`
	IsCancellable   bool            `json:"IsCancellable"`
}

func (w wireOrder) toOrder() (Order, error) {
	id := strings.TrimSpace(string(w.ID))
	if id == "" {
		return Order{}, pkgerrors.New(pkgerrors.CodeParse, "order entry is missing its id")
	}
	return Order{
		ID:              id,
		OrderNumber:     string(w.OrderNumber),
		OrderDate:       w.OrderDate,
		Status:          OrderStatusFromCode(int(w.Status)),
		Total:           w.Total,
		SubTotal:        w.SubTotal,
		DeliveryAddress: w.DeliveryAddress,
		DeliveryTime:    w.DeliveryTime,
		Editable:        w.IsEditable,
		Cancellable:     w.IsCancellable,
	}, nil
}

type wireOrderHistory struct {
	Orders         []wireOrder `json:"Orders"`
	NumberOfOrders *int        `json:"NumberOfOrders"`
}

func parseOrderHistory(body []byte) (*OrderHistory, error) {
	var wire wireOrderHistory
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeParse, err, "decoding order history response")
	}

	orders := make([]Order, 0, len(wire.Orders))
	for i, wo := range wire.Orders {
		o, err := wo.toOrder()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeParse, err, fmt.Sprintf("order row %d", i))
		}
		orders = append(orders, o)
	}

	total := len(orders)
	if wire.NumberOfOrders != nil {
		total = *wire.NumberOfOrders
	}

	return &OrderHistory{Orders: orders, Total: total}, nil
}

type wireOrderLine struct {
	ProductNumber flexString      `json:"ProductNumber"`
	ProductName   string          `json:"ProductName"`
	GroupName     string          `json:"GroupName"`
	Quantity      flexInt         `json:"Quantity"`
	UnitPrice     decimal.Decimal `json:"UnitPrice"`
	Amount        decimal.Decimal `json:"Amount"`
	Discount      decimal.Decimal `json:"Discount"`
	IsDeposit     bool            `json:"IsDeposit"`
	CampaignName  string          `json:"CampaignName"`
}

type wireCouponLine struct {
	Type         string     `json:"Type"`
	Name         string     `json:"Name"`
	CouponNumber flexString `json:"CouponNumber"`
}

type wireOrderDetail struct {
	wireOrder
	ShippingPrice  decimal.Decimal  `json:"ShippingPrice"`
	PackagingPrice decimal.Decimal  `json:"PackagingPrice"`
	DepositPrice   decimal.Decimal  `json:"DepositPrice"`
	CouponDiscount decimal.Decimal  `json:"CouponDiscount"`
	LineDiscount   decimal.Decimal  `json:"TotalLineDiscount"`
	Lines          []wireOrderLine  `json:"Lines"`
	CouponLines    []wireCouponLine `json:"CouponLines"`
}

func parseOrderDetail(body []byte) (*OrderDetail, error) {
	var wire wireOrderDetail
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeParse, err, "decoding order detail response")
	}

	order, err := wire.toOrder()
	if err != nil {
		return nil, err
	}

	// A real order always carries at least one line; an empty set means the
	// response did not match the expected contract, not an empty order.
	if len(wire.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeParse,
			fmt.Sprintf("order %s decoded with zero lines", order.ID))
	}

	detail := &OrderDetail{
		Order:          order,
		ShippingPrice:  wire.ShippingPrice,
		PackagingPrice: wire.PackagingPrice,
		DepositPrice:   wire.DepositPrice,
		CouponDiscount: wire.CouponDiscount,
		LineDiscount:   wire.LineDiscount,
		Lines:          make([]OrderLine, 0, len(wire.Lines)),
		Coupons:        make([]CouponLine, 0, len(wire.CouponLines)),
	}

	for _, line := range wire.Lines {
		detail.Lines = append(detail.Lines, OrderLine{
			ProductNumber: string(line.ProductNumber),
			Name:          line.ProductName,
			Group:         line.GroupName,
			Quantity:      int(line.Quantity),
			UnitPrice:     line.UnitPrice,
			Amount:        line.Amount,
			Discount:      line.Discount,
			IsDeposit:     line.IsDeposit,
			CampaignName:  line.CampaignName,
		})
	}
	for _, coupon := range wire.CouponLines {
		detail.Coupons = append(detail.Coupons, CouponLine{
			Type:         coupon.Type,
			Name:         coupon.Name,
			CouponNumber: string(coupon.CouponNumber),
		})
	}

	return detail, nil
}
