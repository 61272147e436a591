package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/CWeait/nemlig-mcp/internal/nemlig"
	pkgerrors "github.com/CWeait/nemlig-mcp/pkg/errors"
	"github.com/CWeait/nemlig-mcp/pkg/logger"
)

// GroceryAPI is the upstream surface the dispatcher calls. *nemlig.Client
// satisfies it; tests substitute a stub.
type GroceryAPI interface {
	Search(ctx context.Context, query string, take, page int) (*nemlig.SearchResult, error)
	GetProduct(ctx context.Context, productID string) (*nemlig.Product, error)
	GetBasket(ctx context.Context) (*nemlig.Cart, error)
	AddToBasket(ctx context.Context, productID string, quantity int) (*nemlig.Cart, error)
	RemoveFromBasket(ctx context.Context, productID string) (*nemlig.Cart, error)
	GetOrderHistory(ctx context.Context, skip, take int) (*nemlig.OrderHistory, error)
	GetOrder(ctx context.Context, orderID string) (*nemlig.OrderDetail, error)
	GetDeliverySlots(ctx context.Context) ([]nemlig.DeliverySlot, error)
}

type handlerFunc func(ctx context.Context, raw json.RawMessage) (map[string]any, error)

// Definition describes one callable tool: its public name, a human
// description, and a JSON-schema sketch of the argument object.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`

	handler handlerFunc
}

// Registry holds the tool table and routes calls by name.
type Registry struct {
	api  GroceryAPI
	logg *logger.Logger

	definitions map[string]Definition
}

func NewRegistry(api GroceryAPI, logg *logger.Logger) *Registry {
	r := &Registry{
		api:         api,
		logg:        logg,
		definitions: map[string]Definition{},
	}
	r.register(searchProductsTool(api))
	r.register(getProductDetailsTool(api))
	r.register(viewCartTool(api))
	r.register(addToCartTool(api))
	r.register(removeFromCartTool(api))
	r.register(orderHistoryTool(api))
	r.register(orderDetailsTool(api))
	r.register(deliverySlotsTool(api))
	return r
}

func (r *Registry) register(def Definition) {
	r.definitions[def.Name] = def
}

// List returns all tool definitions sorted by name.
func (r *Registry) List() []Definition {
	defs := make([]Definition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Dispatch runs the named tool and always returns a well-formed Result.
// Errors and panics from handlers never escape.
func (r *Registry) Dispatch(ctx context.Context, name string, raw json.RawMessage) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			err := pkgerrors.New(pkgerrors.CodeInternal,
				fmt.Sprintf("tool %s panicked: %v", name, rec))
			if r.logg != nil {
				r.logg.Error(ctx, "tool handler panicked", err)
			}
			result = failure(err)
		}
	}()

	def, ok := r.definitions[name]
	if !ok {
		return failure(pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown tool %q", name)))
	}

	if r.logg != nil {
		ctx = r.logg.WithTool(ctx, name)
	}
	fields, err := def.handler(ctx, raw)
	if err != nil {
		if r.logg != nil {
			r.logg.Warn(r.logg.WithField(ctx, "error", err.Error()), "tool call failed")
		}
		return failure(err)
	}
	if r.logg != nil {
		r.logg.Debug(ctx, "tool call succeeded")
	}
	return success(fields)
}

func searchProductsTool(api GroceryAPI) Definition {
	return Definition{
		Name:        "search_products",
		Description: "Search the product catalog by free-text query.",
		InputSchema: objectSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "Search terms, e.g. a product name or brand."},
			"limit": map[string]any{"type": "integer", "description": "Maximum number of products to return (default 20, max 100)."},
			"page":  map[string]any{"type": "integer", "description": "Result page, starting at 1."},
		}, "query"),
		handler: func(ctx context.Context, raw json.RawMessage) (map[string]any, error) {
			var args searchProductsArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			limit, err := intOrDefault(args.Limit, defaultSearchLimit, 1, maxSearchLimit, "limit")
			if err != nil {
				return nil, err
			}
			page, err := intOrDefault(args.Page, defaultSearchPage, 1, 0, "page")
			if err != nil {
				return nil, err
			}
			result, err := api.Search(ctx, args.Query, limit, page)
			if err != nil {
				return nil, err
			}
			return searchFields(result), nil
		},
	}
}

func getProductDetailsTool(api GroceryAPI) Definition {
	return Definition{
		Name:        "get_product_details",
		Description: "Fetch details for a single product by its ID.",
		InputSchema: objectSchema(map[string]any{
			"productId": map[string]any{"type": "string", "description": "Product identifier as returned by search_products."},
		}, "productId"),
		handler: func(ctx context.Context, raw json.RawMessage) (map[string]any, error) {
			var args getProductDetailsArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			product, err := api.GetProduct(ctx, args.ProductID)
			if err != nil {
				return nil, err
			}
			return map[string]any{"product": productFields(product)}, nil
		},
	}
}

func viewCartTool(api GroceryAPI) Definition {
	return Definition{
		Name:        "view_cart",
		Description: "Show the current cart contents and total.",
		InputSchema: objectSchema(map[string]any{}),
		handler: func(ctx context.Context, raw json.RawMessage) (map[string]any, error) {
			var args struct{}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			cart, err := api.GetBasket(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]any{"cart": cartFields(cart)}, nil
		},
	}
}

func addToCartTool(api GroceryAPI) Definition {
	return Definition{
		Name:        "add_to_cart",
		Description: "Add a product to the cart.",
		InputSchema: objectSchema(map[string]any{
			"productId": map[string]any{"type": "string", "description": "Product identifier to add."},
			"quantity":  map[string]any{"type": "integer", "description": "Units to add (default 1)."},
		}, "productId"),
		handler: func(ctx context.Context, raw json.RawMessage) (map[string]any, error) {
			var args addToCartArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			quantity, err := intOrDefault(args.Quantity, defaultAddQuantity, 1, 0, "quantity")
			if err != nil {
				return nil, err
			}
			cart, err := api.AddToBasket(ctx, args.ProductID, quantity)
			if err != nil {
				return nil, err
			}
			return map[string]any{"cart": cartFields(cart)}, nil
		},
	}
}

func removeFromCartTool(api GroceryAPI) Definition {
	return Definition{
		Name:        "remove_from_cart",
		Description: "Remove a product from the cart entirely.",
		InputSchema: objectSchema(map[string]any{
			"productId": map[string]any{"type": "string", "description": "Product identifier to remove."},
		}, "productId"),
		handler: func(ctx context.Context, raw json.RawMessage) (map[string]any, error) {
			var args removeFromCartArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			cart, err := api.RemoveFromBasket(ctx, args.ProductID)
			if err != nil {
				return nil, err
			}
			return map[string]any{"cart": cartFields(cart)}, nil
		},
	}
}

func orderHistoryTool(api GroceryAPI) Definition {
	return Definition{
		Name:        "get_order_history",
		Description: "List recent orders, newest first.",
		InputSchema: objectSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Maximum number of orders to return (default 10, max 100)."},
		}),
		handler: func(ctx context.Context, raw json.RawMessage) (map[string]any, error) {
			var args orderHistoryArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			limit, err := intOrDefault(args.Limit, defaultOrderLimit, 1, maxOrderLimit, "limit")
			if err != nil {
				return nil, err
			}
			history, err := api.GetOrderHistory(ctx, 0, limit)
			if err != nil {
				return nil, err
			}
			return orderHistoryFields(history), nil
		},
	}
}

func orderDetailsTool(api GroceryAPI) Definition {
	return Definition{
		Name:        "get_order_details",
		Description: "Fetch the full line-level detail of one past order.",
		InputSchema: objectSchema(map[string]any{
			"orderId": map[string]any{"type": "string", "description": "Order identifier from get_order_history."},
		}, "orderId"),
		handler: func(ctx context.Context, raw json.RawMessage) (map[string]any, error) {
			var args orderDetailsArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			detail, err := api.GetOrder(ctx, args.OrderID)
			if err != nil {
				return nil, err
			}
			return map[string]any{"order": orderDetailFields(detail)}, nil
		},
	}
}

func deliverySlotsTool(api GroceryAPI) Definition {
	return Definition{
		Name:        "get_delivery_slots",
		Description: "List upcoming delivery time slots.",
		InputSchema: objectSchema(map[string]any{}),
		handler: func(ctx context.Context, raw json.RawMessage) (map[string]any, error) {
			var args struct{}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			slots, err := api.GetDeliverySlots(ctx)
			if err != nil {
				return nil, err
			}
			serialized := make([]map[string]any, 0, len(slots))
			for i := range slots {
				serialized = append(serialized, map[string]any{
					"id":        slots[i].ID,
					"date":      slots[i].Date,
					"timeFrom":  slots[i].TimeFrom,
					"timeTo":    slots[i].TimeTo,
					"available": slots[i].Available,
					"price":     money(slots[i].Price),
				})
			}
			return map[string]any{"slots": serialized}, nil
		},
	}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
