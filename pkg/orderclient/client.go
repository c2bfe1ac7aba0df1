package orderclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tabletap/internal/domain"
)

// envelope mirrors the server's response wrapper. Some deployments return
// the payload bare; normalize() handles both so nothing downstream ever
// branches on payload shape.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Token   string          `json:"token"`
	Message string          `json:"message"`
}

type Client struct {
	baseURL string
	httpc   *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpc = h } }
func WithToken(token string) Option        { return func(c *Client) { c.token = token } }

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken swaps the bearer token, e.g. after a session refresh.
func (c *Client) SetToken(token string) { c.token = token }

// SyncCart pushes the cart snapshot to the server. Callers treat this as
// advisory; PlaceOrder proceeds even when it fails.
func (c *Client) SyncCart(ctx context.Context, customerID string, cart *Cart) error {
	snapshot := struct {
		Items []CartItem `json:"items"`
		Table *TableRef  `json:"table,omitempty"`
	}{Items: cart.Items()}
	if t, ok := cart.Table(); ok {
		snapshot.Table = &t
	}
	_, err := c.do(ctx, http.MethodPut, "/api/v1/carts/"+customerID, snapshot)
	return err
}

type CreateOrderRequest struct {
	ShopID  string `json:"shop_id"`
	TableID string `json:"table_id"`
	Items   []struct {
		Name     string  `json:"name"`
		Quantity int     `json:"quantity"`
		Price    float64 `json:"price"`
	} `json:"items"`
}

// CreateOrder is the authoritative placement call; the response carries the
// server-assigned identifier and short code.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (domain.Order, error) {
	raw, err := c.do(ctx, http.MethodPost, "/api/v1/orders", req)
	if err != nil {
		return domain.Order{}, err
	}
	var order domain.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return domain.Order{}, fmt.Errorf("decode order: %w", err)
	}
	return order, nil
}

func (c *Client) Order(ctx context.Context, orderID string) (domain.Order, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/v1/orders/"+orderID, nil)
	if err != nil {
		return domain.Order{}, err
	}
	var order domain.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return domain.Order{}, fmt.Errorf("decode order: %w", err)
	}
	return order, nil
}

// MyOrders fetches the authenticated identity's orders.
func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	return c.orderList(ctx, "/api/v1/orders")
}

// ShopOrders fetches all orders for a shop (vendor identity).
func (c *Client) ShopOrders(ctx context.Context, shopID string) ([]domain.Order, error) {
	return c.orderList(ctx, "/api/v1/shops/"+shopID+"/orders")
}

// UpdateOrderStatus requests a vendor-confirmed transition.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, to domain.OrderStatus) (domain.Order, error) {
	raw, err := c.do(ctx, http.MethodPatch, "/api/v1/orders/"+orderID+"/status",
		map[string]string{"status": string(to)})
	if err != nil {
		return domain.Order{}, err
	}
	var order domain.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return domain.Order{}, fmt.Errorf("decode order: %w", err)
	}
	return order, nil
}

func (c *Client) orderList(ctx context.Context, path string) ([]domain.Order, error) {
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var orders []domain.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// do performs the request and normalizes the response at the boundary.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: method + " " + path, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{Resource: "resource", ID: path}
	case resp.StatusCode >= 400:
		return nil, &NetworkError{Op: method + " " + path,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, problemDetail(raw))}
	}
	return normalize(raw), nil
}

// normalize unwraps the {data, token?, message?} envelope; bare payloads
// pass through untouched.
func normalize(raw []byte) json.RawMessage {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		return env.Data
	}
	return raw
}

func problemDetail(raw []byte) string {
	var p struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &p); err == nil {
		if p.Detail != "" {
			return p.Detail
		}
		if p.Message != "" {
			return p.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
