package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tabletap/internal/connections/rabbitmq"
	"tabletap/internal/domain"
	"tabletap/internal/logger"
	"tabletap/internal/microservices/ordering/repository"
)

type OrderService struct {
	repo   repository.OrderRepositoryInterface
	events EventPublisher
	log    *logger.Logger
	now    func() time.Time
}

func NewOrderService(repo repository.OrderRepositoryInterface, events EventPublisher, log *logger.Logger) *OrderService {
	return &OrderService{repo: repo, events: events, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (domain.Order, error) {
	if req.ShopID == "" {
		return domain.Order{}, ErrNoShop
	}
	if req.TableID == "" {
		return domain.Order{}, ErrNoTable
	}
	if len(req.Items) == 0 {
		return domain.Order{}, ErrNoItems
	}

	total := 0.0
	items := make([]domain.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("%w: %s", ErrBadQuantity, it.Name)
		}
		if it.Price <= 0 {
			return domain.Order{}, fmt.Errorf("%w: %s", ErrBadPrice, it.Name)
		}
		total += float64(it.Quantity) * it.Price
		items = append(items, domain.OrderLine{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}

	code, err := s.shortCode(ctx)
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:          uuid.NewString(),
		ShortCode:   code,
		ShopID:      req.ShopID,
		CustomerID:  req.CustomerID,
		TableID:     req.TableID,
		Status:      domain.StatusPending,
		Items:       items,
		TotalAmount: total,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("failed to save order: %w", err)
	}

	s.publish(ctx, rabbitmq.KeyOrderCreated+"."+order.ShopID, domain.OrderCreated{
		Order:      order,
		OccurredAt: s.now(),
	})

	s.log.Info("order_created", map[string]any{
		"order_id": order.ID, "short_code": order.ShortCode,
		"shop_id": order.ShopID, "total": order.TotalAmount,
	})
	return order, nil
}

// shortCode builds the human-readable display code, e.g. ORD_20260901_007.
func (s *OrderService) shortCode(ctx context.Context) (string, error) {
	day := s.now()
	seq, err := s.repo.DailyCount(ctx, day)
	if err != nil {
		return "", fmt.Errorf("failed to get order count: %w", err)
	}
	return fmt.Sprintf("ORD_%s_%03d", day.Format("20060102"), seq+1), nil
}

func (s *OrderService) Get(ctx context.Context, orderID string) (domain.Order, error) {
	return s.repo.GetOrder(ctx, orderID)
}

func (s *OrderService) ListForCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *OrderService) ListForShop(ctx context.Context, shopID string) ([]domain.Order, error) {
	return s.repo.ListByShop(ctx, shopID)
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, to domain.OrderStatus, changedBy string) (domain.Order, error) {
	if !to.Valid() {
		return domain.Order{}, fmt.Errorf("%w: %s", ErrBadStatus, to)
	}
	order, from, err := s.repo.UpdateStatusTx(ctx, orderID, to, changedBy)
	if err != nil {
		return domain.Order{}, err
	}

	s.publish(ctx, rabbitmq.KeyOrderStatus+"."+order.ShopID, domain.OrderStatusChanged{
		OrderID:    order.ID,
		ShortCode:  order.ShortCode,
		ShopID:     order.ShopID,
		CustomerID: order.CustomerID,
		OldStatus:  from,
		NewStatus:  to,
		ChangedBy:  changedBy,
		OccurredAt: s.now(),
	})

	s.log.Info("order_status_changed", map[string]any{
		"order_id": order.ID, "from": string(from), "to": string(to), "changed_by": changedBy,
	})
	return order, nil
}

func (s *OrderService) SyncCart(ctx context.Context, customerID string, snapshot json.RawMessage) error {
	if customerID == "" {
		return ErrNoCustomer
	}
	return s.repo.UpsertCart(ctx, customerID, snapshot)
}

// publish is best-effort for the caller: a broker failure is logged, the
// committed order stands either way.
func (s *OrderService) publish(ctx context.Context, key string, ev any) {
	body, err := json.Marshal(ev)
	if err != nil {
		s.log.Error("event_marshal_failed", err, map[string]any{"key": key})
		return
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.events.Publish(pctx, rabbitmq.OrdersExchange, key, body); err != nil {
		s.log.Error("event_publish_failed", err, map[string]any{"key": key})
	}
}
