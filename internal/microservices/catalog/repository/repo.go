package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tabletap/internal/domain"
)

var ErrNotFound = errors.New("not found")

type CatalogRepositoryInterface interface {
	CreateShop(ctx context.Context, s domain.Shop) error
	GetShop(ctx context.Context, id string) (domain.Shop, error)
	ListPendingShops(ctx context.Context) ([]domain.Shop, error)
	SetShopApproval(ctx context.Context, id string, approved bool) error
	DeleteShop(ctx context.Context, id string) error

	CreateMenuItem(ctx context.Context, m domain.MenuItem) error
	ListMenu(ctx context.Context, shopID string) ([]domain.MenuItem, error)
	SetMenuItemAvailability(ctx context.Context, id string, available bool) error

	CreateTable(ctx context.Context, t domain.Table) error
	GetTable(ctx context.Context, id string) (domain.Table, error)
	ListTables(ctx context.Context, shopID string) ([]domain.Table, error)
}

type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) CatalogRepositoryInterface {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) CreateShop(ctx context.Context, s domain.Shop) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shops (id, vendor_id, name, approved, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, s.ID, s.VendorID, s.Name, s.Approved, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert shop: %w", err)
	}
	return nil
}

func (r *CatalogRepository) GetShop(ctx context.Context, id string) (domain.Shop, error) {
	var s domain.Shop
	err := r.db.QueryRowContext(ctx, `
		SELECT id, vendor_id, name, approved, created_at FROM shops WHERE id = $1
	`, id).Scan(&s.ID, &s.VendorID, &s.Name, &s.Approved, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Shop{}, ErrNotFound
	}
	return s, err
}

func (r *CatalogRepository) ListPendingShops(ctx context.Context) ([]domain.Shop, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, vendor_id, name, approved, created_at
		FROM shops WHERE approved = false ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Shop
	for rows.Next() {
		var s domain.Shop
		if err := rows.Scan(&s.ID, &s.VendorID, &s.Name, &s.Approved, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) SetShopApproval(ctx context.Context, id string, approved bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shops SET approved = $2 WHERE id = $1`, id, approved)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) DeleteShop(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) CreateMenuItem(ctx context.Context, m domain.MenuItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO menu_items (id, shop_id, name, category, price, available)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID, m.ShopID, m.Name, m.Category, m.Price, m.Available)
	return err
}

func (r *CatalogRepository) ListMenu(ctx context.Context, shopID string) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, shop_id, name, category, price, available
		FROM menu_items WHERE shop_id = $1 ORDER BY category, name
	`, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MenuItem
	for rows.Next() {
		var m domain.MenuItem
		if err := rows.Scan(&m.ID, &m.ShopID, &m.Name, &m.Category, &m.Price, &m.Available); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) SetMenuItemAvailability(ctx context.Context, id string, available bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE menu_items SET available = $2 WHERE id = $1`, id, available)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) CreateTable(ctx context.Context, t domain.Table) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tables (id, shop_id, label, code) VALUES ($1, $2, $3, $4)
	`, t.ID, t.ShopID, t.Label, t.Code)
	return err
}

func (r *CatalogRepository) GetTable(ctx context.Context, id string) (domain.Table, error) {
	var t domain.Table
	err := r.db.QueryRowContext(ctx, `
		SELECT id, shop_id, label, code FROM tables WHERE id = $1
	`, id).Scan(&t.ID, &t.ShopID, &t.Label, &t.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Table{}, ErrNotFound
	}
	return t, err
}

func (r *CatalogRepository) ListTables(ctx context.Context, shopID string) ([]domain.Table, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, shop_id, label, code FROM tables WHERE shop_id = $1 ORDER BY label
	`, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Table
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.ShopID, &t.Label, &t.Code); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
