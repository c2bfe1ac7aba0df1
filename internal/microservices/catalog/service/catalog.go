package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tabletap/internal/domain"
	"tabletap/internal/logger"
	"tabletap/internal/microservices/catalog/repository"
)

var (
	ErrNameRequired = errors.New("name is required")
	ErrBadPrice     = errors.New("price must be positive")
	ErrNotApproved  = errors.New("shop is not approved")
)

type CatalogServiceInterface interface {
	RegisterShop(ctx context.Context, vendorID, name string) (domain.Shop, error)
	ListPendingShops(ctx context.Context) ([]domain.Shop, error)
	ApproveShop(ctx context.Context, shopID string) error
	RejectShop(ctx context.Context, shopID string) error

	AddMenuItem(ctx context.Context, m domain.MenuItem) (domain.MenuItem, error)
	Menu(ctx context.Context, shopID string) ([]domain.MenuItem, error)
	SetAvailability(ctx context.Context, itemID string, available bool) error

	AddTable(ctx context.Context, shopID, label string) (domain.Table, error)
	Table(ctx context.Context, tableID string) (domain.Table, error)
	Tables(ctx context.Context, shopID string) ([]domain.Table, error)
}

type CatalogService struct {
	repo repository.CatalogRepositoryInterface
	log  *logger.Logger
}

func NewCatalogService(repo repository.CatalogRepositoryInterface, log *logger.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

// RegisterShop creates a shop awaiting admin approval.
func (s *CatalogService) RegisterShop(ctx context.Context, vendorID, name string) (domain.Shop, error) {
	if name == "" {
		return domain.Shop{}, ErrNameRequired
	}
	shop := domain.Shop{
		ID:        uuid.NewString(),
		VendorID:  vendorID,
		Name:      name,
		Approved:  false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateShop(ctx, shop); err != nil {
		return domain.Shop{}, err
	}
	s.log.Info("shop_registered", map[string]any{"shop_id": shop.ID, "vendor_id": vendorID})
	return shop, nil
}

func (s *CatalogService) ListPendingShops(ctx context.Context) ([]domain.Shop, error) {
	return s.repo.ListPendingShops(ctx)
}

func (s *CatalogService) ApproveShop(ctx context.Context, shopID string) error {
	if err := s.repo.SetShopApproval(ctx, shopID, true); err != nil {
		return err
	}
	s.log.Info("shop_approved", map[string]any{"shop_id": shopID})
	return nil
}

// RejectShop removes a pending registration outright.
func (s *CatalogService) RejectShop(ctx context.Context, shopID string) error {
	if err := s.repo.DeleteShop(ctx, shopID); err != nil {
		return err
	}
	s.log.Info("shop_rejected", map[string]any{"shop_id": shopID})
	return nil
}

func (s *CatalogService) AddMenuItem(ctx context.Context, m domain.MenuItem) (domain.MenuItem, error) {
	if m.Name == "" {
		return domain.MenuItem{}, ErrNameRequired
	}
	if m.Price <= 0 {
		return domain.MenuItem{}, fmt.Errorf("%w: %s", ErrBadPrice, m.Name)
	}
	shop, err := s.repo.GetShop(ctx, m.ShopID)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if !shop.Approved {
		return domain.MenuItem{}, ErrNotApproved
	}
	m.ID = uuid.NewString()
	m.Available = true
	if err := s.repo.CreateMenuItem(ctx, m); err != nil {
		return domain.MenuItem{}, err
	}
	return m, nil
}

func (s *CatalogService) Menu(ctx context.Context, shopID string) ([]domain.MenuItem, error) {
	return s.repo.ListMenu(ctx, shopID)
}

func (s *CatalogService) SetAvailability(ctx context.Context, itemID string, available bool) error {
	return s.repo.SetMenuItemAvailability(ctx, itemID, available)
}

func (s *CatalogService) AddTable(ctx context.Context, shopID, label string) (domain.Table, error) {
	if label == "" {
		return domain.Table{}, ErrNameRequired
	}
	id := uuid.NewString()
	t := domain.Table{
		ID:     id,
		ShopID: shopID,
		Label:  label,
		Code:   fmt.Sprintf("shop/%s/table/%s", shopID, id),
	}
	if err := s.repo.CreateTable(ctx, t); err != nil {
		return domain.Table{}, err
	}
	return t, nil
}

func (s *CatalogService) Table(ctx context.Context, tableID string) (domain.Table, error) {
	return s.repo.GetTable(ctx, tableID)
}

func (s *CatalogService) Tables(ctx context.Context, shopID string) ([]domain.Table, error) {
	return s.repo.ListTables(ctx, shopID)
}
