package tools

import (
	"github.com/shopspring/decimal"

	"github.com/CWeait/nemlig-mcp/internal/nemlig"
)

// The field names below are the stable external contract of the tool
// surface; renaming one is a breaking change for every tool caller.

func money(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func productFields(p *nemlig.Product) map[string]any {
	fields := map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"price":       money(p.Price),
		"unit":        p.Unit,
		"brand":       p.Brand,
		"category":    p.Category,
		"imageUrl":    p.ImageURL,
		"description": p.Description,
		"inStock":     p.InStock,
	}
	if p.Nutrition != nil {
		fields["nutrition"] = map[string]any{
			"energy":        p.Nutrition.Energy,
			"fat":           p.Nutrition.Fat,
			"carbohydrates": p.Nutrition.Carbohydrates,
			"protein":       p.Nutrition.Protein,
			"sugar":         p.Nutrition.Sugar,
			"fiber":         p.Nutrition.Fiber,
			"salt":          p.Nutrition.Salt,
		}
	}
	return fields
}

func searchFields(r *nemlig.SearchResult) map[string]any {
	products := make([]map[string]any, 0, len(r.Products))
	for i := range r.Products {
		products = append(products, productFields(&r.Products[i]))
	}
	return map[string]any{
		"query":    r.Query,
		"products": products,
		"total":    r.Total,
		"page":     r.Page,
		"pageSize": r.PageSize,
	}
}

func cartFields(c *nemlig.Cart) map[string]any {
	items := make([]map[string]any, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, map[string]any{
			"productId": item.ProductID,
			"name":      item.Name,
			"quantity":  item.Quantity,
			"unitPrice": money(item.UnitPrice),
			"lineTotal": money(item.LineTotal),
		})
	}
	return map[string]any{
		"items":      items,
		"totalPrice": money(c.TotalPrice),
		"itemCount":  c.ItemCount,
	}
}

func orderFields(o *nemlig.Order) map[string]any {
	return map[string]any{
		"id":              o.ID,
		"orderNumber":     o.OrderNumber,
		"orderDate":       o.OrderDate,
		"status":          string(o.Status),
		"total":           money(o.Total),
		"subTotal":        money(o.SubTotal),
		"deliveryAddress": o.DeliveryAddress,
		"deliveryTime":    o.DeliveryTime,
		"editable":        o.Editable,
		"cancellable":     o.Cancellable,
	}
}

func orderHistoryFields(h *nemlig.OrderHistory) map[string]any {
	orders := make([]map[string]any, 0, len(h.Orders))
	for i := range h.Orders {
		orders = append(orders, orderFields(&h.Orders[i]))
	}
	return map[string]any{
		"orders": orders,
		"total":  h.Total,
	}
}

func orderDetailFields(d *nemlig.OrderDetail) map[string]any {
	fields := orderFields(&d.Order)
	fields["shippingPrice"] = money(d.ShippingPrice)
	fields["packagingPrice"] = money(d.PackagingPrice)
	fields["depositPrice"] = money(d.DepositPrice)
	fields["couponDiscount"] = money(d.CouponDiscount)
	fields["lineDiscount"] = money(d.LineDiscount)

	lines := make([]map[string]any, 0, len(d.Lines))
	for _, line := range d.Lines {
		lines = append(lines, map[string]any{
			"productNumber": line.ProductNumber,
			"name":          line.Name,
			"group":         line.Group,
			"quantity":      line.Quantity,
			"unitPrice":     money(line.UnitPrice),
			"amount":        money(line.Amount),
			"discount":      money(line.Discount),
			"isDeposit":     line.IsDeposit,
			"campaignName":  line.CampaignName,
		})
	}
	fields["lines"] = lines

	coupons := make([]map[string]any, 0, len(d.Coupons))
	for _, coupon := range d.Coupons {
		coupons = append(coupons, map[string]any{
			"type":         coupon.Type,
			"name":         coupon.Name,
			"couponNumber": coupon.CouponNumber,
		})
	}
	fields["coupons"] = coupons

	return fields
}
