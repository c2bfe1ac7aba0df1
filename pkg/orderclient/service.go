package orderclient

import (
	"context"

	"tabletap/internal/domain"
	"tabletap/internal/logger"
)

// API is the slice of Client the ordering flow depends on.
type API interface {
	SyncCart(ctx context.Context, customerID string, cart *Cart) error
	CreateOrder(ctx context.Context, req CreateOrderRequest) (domain.Order, error)
	MyOrders(ctx context.Context) ([]domain.Order, error)
}

// Service ties a Cart and a Tracker to the remote API. All state containers
// are injected; nothing here is a package-level singleton.
type Service struct {
	api        API
	cart       *Cart
	tracker    *Tracker
	customerID string
	log        *logger.Logger
}

func NewService(api API, cart *Cart, tracker *Tracker, customerID string, log *logger.Logger) *Service {
	return &Service{api: api, cart: cart, tracker: tracker, customerID: customerID, log: log}
}

// PlaceOrder submits the cart as an order against the given shop.
//
// Validation failures return *ValidationError before any network call. The
// cart sync is advisory: its failure is logged and the flow continues. A
// failed creation call returns *SubmissionError and leaves the cart exactly
// as it was. Only a confirmed creation clears the cart, and it clears it
// once.
func (s *Service) PlaceOrder(ctx context.Context, shopID string) (domain.Order, error) {
	if s.cart.Empty() {
		return domain.Order{}, &ValidationError{Reason: "cart is empty"}
	}
	table, ok := s.cart.Table()
	if !ok {
		return domain.Order{}, &ValidationError{Reason: "no table selected"}
	}
	if shopID == "" {
		return domain.Order{}, &ValidationError{Reason: "no shop selected"}
	}

	if err := s.api.SyncCart(ctx, s.customerID, s.cart); err != nil {
		s.log.Error("cart_sync_failed", err, map[string]any{"customer_id": s.customerID})
	}

	req := CreateOrderRequest{ShopID: shopID, TableID: table.ID}
	for _, it := range s.cart.Items() {
		req.Items = append(req.Items, struct {
			Name     string  `json:"name"`
			Quantity int     `json:"quantity"`
			Price    float64 `json:"price"`
		}{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}

	order, err := s.api.CreateOrder(ctx, req)
	if err != nil {
		return domain.Order{}, &SubmissionError{Err: err}
	}

	s.tracker.Prepend(order)
	s.cart.Clear()
	s.log.Info("order_placed", map[string]any{"order_id": order.ID, "short_code": order.ShortCode})
	return order, nil
}

// RefreshOrders reconciles the tracked set with the server, e.g. after the
// push channel was down. A response that lost the race to a newer refresh is
// discarded.
func (s *Service) RefreshOrders(ctx context.Context) error {
	seq := s.tracker.BeginFetch()
	orders, err := s.api.MyOrders(ctx)
	if err != nil {
		return err
	}
	if !s.tracker.ApplyFetch(seq, orders) {
		s.log.Debug("stale_fetch_discarded", map[string]any{"seq": seq})
	}
	return nil
}
