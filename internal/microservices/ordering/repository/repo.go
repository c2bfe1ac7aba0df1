package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"tabletap/internal/domain"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrIllegalTransition = errors.New("illegal status transition")
)

type OrderRepositoryInterface interface {
	CreateOrder(ctx context.Context, o domain.Order) error
	DailyCount(ctx context.Context, day time.Time) (int, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	ListByShop(ctx context.Context, shopID string) ([]domain.Order, error)

	// UpdateStatusTx moves the order to the requested status inside a
	// transaction, guarding the legal edge set with a row lock, and returns
	// the updated order plus the status it moved from.
	UpdateStatusTx(ctx context.Context, orderID string, to domain.OrderStatus, changedBy string) (domain.Order, domain.OrderStatus, error)

	UpsertCart(ctx context.Context, customerID string, snapshot json.RawMessage) error
}

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepositoryInterface {
	return &OrderRepository{db: db}
}
