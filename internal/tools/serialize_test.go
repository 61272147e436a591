package tools

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CWeait/nemlig-mcp/internal/nemlig"
)

func TestProductFieldsIncludeNutritionWhenPresent(t *testing.T) {
	product := &nemlig.Product{
		ID:      "5052",
		Name:    "Økologisk Minimælk",
		Price:   decimal.RequireFromString("13.50"),
		Unit:    "14,50 kr/l",
		InStock: true,
		Nutrition: &nemlig.Nutrition{
			Energy:  "197 kJ",
			Protein: "3,5 g",
		},
	}

	fields := productFields(product)

	assert.Equal(t, "5052", fields["id"])
	assert.Equal(t, 13.50, fields["price"])
	assert.Equal(t, true, fields["inStock"])

	nutrition, ok := fields["nutrition"].(map[string]any)
	require.True(t, ok, "nutrition block missing")
	assert.Equal(t, "197 kJ", nutrition["energy"])
	assert.Equal(t, "3,5 g", nutrition["protein"])
}

func TestProductFieldsOmitNutritionWhenAbsent(t *testing.T) {
	fields := productFields(&nemlig.Product{ID: "5052", Name: "Minimælk"})

	_, present := fields["nutrition"]
	assert.False(t, present)
}

func TestCartFieldsKeepLineOrderAndTotals(t *testing.T) {
	cart := &nemlig.Cart{
		Items: []nemlig.CartItem{
			{ProductID: "5052", Name: "Minimælk", Quantity: 2, UnitPrice: decimal.RequireFromString("13.50"), LineTotal: decimal.RequireFromString("27.00")},
			{ProductID: "700410", Name: "Rugbrød", Quantity: 1, UnitPrice: decimal.RequireFromString("22.95"), LineTotal: decimal.RequireFromString("22.95")},
		},
		TotalPrice: decimal.RequireFromString("49.95"),
		ItemCount:  3,
	}

	fields := cartFields(cart)

	items, ok := fields["items"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "5052", items[0]["productId"])
	assert.Equal(t, "700410", items[1]["productId"])
	assert.Equal(t, 27.00, items[0]["lineTotal"])
	assert.Equal(t, 49.95, fields["totalPrice"])
	assert.Equal(t, 3, fields["itemCount"])
}

func TestCartFieldsEmptyCartSerializesToEmptyList(t *testing.T) {
	fields := cartFields(&nemlig.Cart{})

	items, ok := fields["items"].([]map[string]any)
	require.True(t, ok)
	assert.Empty(t, items)
	assert.Equal(t, 0.0, fields["totalPrice"])
}

func TestOrderDetailFieldsCarryChargesLinesAndCoupons(t *testing.T) {
	detail := &nemlig.OrderDetail{
		Order: nemlig.Order{
			ID:     "443322",
			Status: nemlig.OrderStatusDelivered,
			Total:  decimal.RequireFromString("612.40"),
		},
		ShippingPrice: decimal.RequireFromString("29.00"),
		DepositPrice:  decimal.RequireFromString("3.00"),
		Lines: []nemlig.OrderLine{
			{ProductNumber: "5052", Name: "Minimælk", Quantity: 2, Amount: decimal.RequireFromString("27.00")},
			{Name: "Pant", IsDeposit: true, Quantity: 2, Amount: decimal.RequireFromString("3.00")},
		},
		Coupons: []nemlig.CouponLine{
			{Type: "voucher", Name: "Velkomstrabat", CouponNumber: "881"},
		},
	}

	fields := orderDetailFields(detail)

	assert.Equal(t, "443322", fields["id"])
	assert.Equal(t, "Delivered", fields["status"])
	assert.Equal(t, 29.00, fields["shippingPrice"])
	assert.Equal(t, 3.00, fields["depositPrice"])

	lines, ok := fields["lines"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, lines, 2)
	assert.Equal(t, true, lines[1]["isDeposit"])

	coupons, ok := fields["coupons"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, coupons, 1)
	assert.Equal(t, "881", coupons[0]["couponNumber"])
}
