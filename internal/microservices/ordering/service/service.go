package service

import (
	"context"
	"encoding/json"
	"errors"

	"tabletap/internal/domain"
)

var (
	ErrNoItems     = errors.New("at least one item is required")
	ErrNoTable     = errors.New("table is required")
	ErrNoShop      = errors.New("shop is required")
	ErrNoCustomer  = errors.New("customer is required")
	ErrBadQuantity = errors.New("item quantity must be positive")
	ErrBadPrice    = errors.New("item price must be positive")
	ErrBadStatus   = errors.New("unknown order status")
)

type OrderLineRequest struct {
	MenuItemID string  `json:"menu_item_id,omitempty"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

type CreateOrderRequest struct {
	ShopID     string             `json:"shop_id"`
	CustomerID string             `json:"customer_id"`
	TableID    string             `json:"table_id"`
	Items      []OrderLineRequest `json:"items"`
}

type OrderServiceInterface interface {
	Create(ctx context.Context, req CreateOrderRequest) (domain.Order, error)
	Get(ctx context.Context, orderID string) (domain.Order, error)
	ListForCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	ListForShop(ctx context.Context, shopID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, to domain.OrderStatus, changedBy string) (domain.Order, error)
	SyncCart(ctx context.Context, customerID string, snapshot json.RawMessage) error
}

// EventPublisher is satisfied by the rabbitmq client.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}
