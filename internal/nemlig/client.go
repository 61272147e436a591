package nemlig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/CWeait/nemlig-mcp/pkg/config"
	pkgerrors "github.com/CWeait/nemlig-mcp/pkg/errors"
	"github.com/CWeait/nemlig-mcp/pkg/logger"
	"github.com/CWeait/nemlig-mcp/pkg/transport"
)

// Known upstream endpoints, discovered empirically. GetProduct has no
// dedicated endpoint (see the search workaround below) and delivery slots
// remain undiscovered.
const (
	loginPath        = "/login/login"
	searchPath       = "/s/0/1/0/Search/Search"
	addToBasketPath  = "/basket/AddToBasket"
	getBasketPath    = "/basket/GetBasket"
	orderHistoryPath = "/order/GetBasicOrderHistory"
	orderDetailPath  = "/order/GetOrderHistory"
)

// productLookupTake bounds the search used to emulate a product detail
// endpoint; an exact id query should surface the product well inside this.
const productLookupTake = 50

var errTransportRequired = errors.New("nemlig: transport is required")

// Client wraps the Nemlig API with one method per discovered operation.
// Authentication state lives in the transport's session store as cookies;
// the client itself is stateless and safe for concurrent use.
type Client struct {
	cfg  config.UpstreamConfig
	doer transport.Doer
	logg *logger.Logger
}

func NewClient(cfg config.UpstreamConfig, doer transport.Doer, logg *logger.Logger) (*Client, error) {
	if doer == nil {
		return nil, errTransportRequired
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, doer: doer, logg: logg}, nil
}

type loginRequest struct {
	Username                 string `json:"Username"`
	Password                 string `json:"Password"`
	AppInstalled             bool   `json:"AppInstalled"`
	AutoLogin                bool   `json:"AutoLogin"`
	CheckForExistingProducts bool   `json:"CheckForExistingProducts"`
	DoMerge                  bool   `json:"DoMerge"`
}

// Login authenticates against the upstream. The auth result arrives as
// Set-Cookie headers absorbed by the transport, not as a response field.
// Missing credentials fail fast before any network activity.
func (c *Client) Login(ctx context.Context) error {
	if !c.cfg.HasCredentials() {
		return pkgerrors.New(pkgerrors.CodeConfiguration,
			"upstream credentials are not configured (NEMLIG_USERNAME / NEMLIG_PASSWORD)")
	}

	payload := loginRequest{
		Username:                 c.cfg.Username,
		Password:                 c.cfg.Password,
		AppInstalled:             false,
		AutoLogin:                false,
		CheckForExistingProducts: true,
		DoMerge:                  true,
	}
	if _, err := c.do(ctx, http.MethodPost, loginPath, nil, payload); err != nil {
		return err
	}
	if c.logg != nil {
		c.logg.Info(ctx, "authenticated against upstream")
	}
	return nil
}

// Search queries the product catalog. The upstream takes a flat result count
// ("take") and has no real page parameter; page is echoed back to callers
// unchanged so the tool surface can keep its pagination contract.
func (c *Client) Search(ctx context.Context, query string, take, page int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query must not be empty")
	}
	if take <= 0 {
		take = 20
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("take", strconv.Itoa(take))

	body, err := c.do(ctx, http.MethodGet, searchPath, params, nil)
	if err != nil {
		return nil, err
	}
	return parseSearch(body, query, page, take)
}

// GetProduct emulates a product detail endpoint: no dedicated one has been
// discovered, so it searches for the id and filters for an exact match.
// Documented workaround, not a real endpoint.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must not be empty")
	}

	result, err := c.Search(ctx, productID, productLookupTake, 1)
	if err != nil {
		return nil, err
	}
	for i := range result.Products {
		if result.Products[i].ID == productID {
			return &result.Products[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeUpstream,
		fmt.Sprintf("product %s not found", productID))
}

// GetBasket fetches the authoritative cart state.
func (c *Client) GetBasket(ctx context.Context) (*Cart, error) {
	body, err := c.do(ctx, http.MethodGet, getBasketPath, nil, nil)
	if err != nil {
		return nil, err
	}
	return parseBasket(body)
}

// AddToBasket sets the quantity for a product and returns the full
// recomputed cart from the response body.
func (c *Client) AddToBasket(ctx context.Context, productID string, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	return c.setBasketQuantity(ctx, productID, quantity)
}

// RemoveFromBasket removes a product by setting its quantity to zero.
// Inferred convention, pending confirmation against a real upstream response.
func (c *Client) RemoveFromBasket(ctx context.Context, productID string) (*Cart, error) {
	return c.setBasketQuantity(ctx, productID, 0)
}

func (c *Client) setBasketQuantity(ctx context.Context, productID string, quantity int) (*Cart, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must not be empty")
	}

	payload := map[string]any{
		"productId": productID,
		"quantity":  quantity,
	}
	body, err := c.do(ctx, http.MethodPost, addToBasketPath, nil, payload)
	if err != nil {
		return nil, err
	}
	return parseBasket(body)
}

// GetOrderHistory fetches order summary rows.
func (c *Client) GetOrderHistory(ctx context.Context, skip, take int) (*OrderHistory, error) {
	if skip < 0 {
		skip = 0
	}
	if take <= 0 {
		take = 10
	}

	params := url.Values{}
	params.Set("skip", strconv.Itoa(skip))
	params.Set("take", strconv.Itoa(take))

	body, err := c.do(ctx, http.MethodGet, orderHistoryPath, params, nil)
	if err != nil {
		return nil, err
	}
	return parseOrderHistory(body)
}

// GetOrder fetches the expanded detail for one order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*OrderDetail, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id must not be empty")
	}

	params := url.Values{}
	params.Set("id", orderID)

	body, err := c.do(ctx, http.MethodGet, orderDetailPath, params, nil)
	if err != nil {
		return nil, err
	}
	return parseOrderDetail(body)
}

// GetDeliverySlots always fails: the endpoint has not been discovered.
// Drop a real implementation here once it is known; the dispatcher contract
// will not change.
func (c *Client) GetDeliverySlots(ctx context.Context) ([]DeliverySlot, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnsupported,
		"delivery slot lookup is not implemented: no known upstream endpoint")
}

// do builds the request, performs the exchange, and branches on status.
// 2xx bodies are returned for the caller's parser; everything else becomes
// a coded failure. No retries at this layer.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	fullURL := c.cfg.BaseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request payload")
		}
		body = encoded
	}

	resp, err := c.doer.Do(ctx, method, fullURL, body, nil)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp.Body, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, pkgerrors.New(pkgerrors.CodeUpstream,
			"session expired, re-authentication required").
			WithDetails(map[string]any{"status": resp.StatusCode})
	default:
		return nil, pkgerrors.New(pkgerrors.CodeUpstream,
			fmt.Sprintf("upstream returned status %d", resp.StatusCode)).
			WithDetails(map[string]any{
				"status": resp.StatusCode,
				"body":   excerpt(resp.Body),
			})
	}
}

// excerpt trims a diagnostic body to a loggable size.
func excerpt(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
