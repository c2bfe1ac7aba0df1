package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tabletap/internal/domain"
)

func (r *OrderRepository) CreateOrder(ctx context.Context, o domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		    (id, short_code, shop_id, customer_id, table_id, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`, o.ID, o.ShortCode, o.ShopID, o.CustomerID, o.TableID, o.TotalAmount, string(o.Status), o.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range o.Items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, name, quantity, price, created_at)
			VALUES ($1, $2, $3, $4, NOW())
		`, o.ID, item.Name, item.Quantity, item.Price); err != nil {
			return fmt.Errorf("failed to insert order item %s: %w", item.Name, err)
		}
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, 'ordering-service', NOW())
	`, o.ID, string(o.Status)); err != nil {
		return fmt.Errorf("failed to insert order status log: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *OrderRepository) DailyCount(ctx context.Context, day time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE created_at::date = $1::date`,
		day.UTC()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	var status string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, short_code, shop_id, customer_id, table_id, total_amount, status, created_at
		FROM orders WHERE id = $1
	`, id).Scan(&o.ID, &o.ShortCode, &o.ShopID, &o.CustomerID, &o.TableID, &o.TotalAmount, &status, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderStatus(status)
	if o.Items, err = r.orderItems(ctx, o.ID); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return r.list(ctx, `customer_id = $1`, customerID)
}

func (r *OrderRepository) ListByShop(ctx context.Context, shopID string) ([]domain.Order, error) {
	return r.list(ctx, `shop_id = $1`, shopID)
}

func (r *OrderRepository) list(ctx context.Context, where string, arg any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, short_code, shop_id, customer_id, table_id, total_amount, status, created_at
		FROM orders WHERE `+where+` ORDER BY created_at DESC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		var status string
		if err := rows.Scan(&o.ID, &o.ShortCode, &o.ShopID, &o.CustomerID, &o.TableID,
			&o.TotalAmount, &status, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Status = domain.OrderStatus(status)
		if o.Items, err = r.orderItems(ctx, o.ID); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepository) orderItems(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, quantity, price FROM order_items WHERE order_id = $1 ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderLine
	for rows.Next() {
		var it domain.OrderLine
		if err := rows.Scan(&it.Name, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *OrderRepository) UpdateStatusTx(ctx context.Context, orderID string, to domain.OrderStatus, changedBy string) (domain.Order, domain.OrderStatus, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, "", err
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, "", ErrNotFound
	}
	if err != nil {
		return domain.Order{}, "", err
	}

	from := domain.OrderStatus(current)
	if !from.CanTransition(to) {
		return domain.Order{}, from, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
	`, orderID, string(to)); err != nil {
		return domain.Order{}, "", err
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, NOW())
	`, orderID, string(to), changedBy); err != nil {
		return domain.Order{}, "", err
	}
	if err = tx.Commit(); err != nil {
		return domain.Order{}, "", err
	}

	o, err := r.GetOrder(ctx, orderID)
	return o, from, err
}

func (r *OrderRepository) UpsertCart(ctx context.Context, customerID string, snapshot json.RawMessage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO carts (customer_id, snapshot, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (customer_id) DO UPDATE SET
		  snapshot = EXCLUDED.snapshot,
		  updated_at = NOW()
	`, customerID, []byte(snapshot))
	return err
}
