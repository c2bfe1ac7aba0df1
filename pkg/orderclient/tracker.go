package orderclient

import (
	"sync"

	"tabletap/internal/domain"
)

// StatusUpdate is a status transition observed either from a confirmed local
// action or from an asynchronous push.
type StatusUpdate struct {
	OrderID   string             `json:"order_id"`
	ShortCode string             `json:"short_code,omitempty"`
	ShopID    string             `json:"shop_id,omitempty"`
	NewStatus domain.OrderStatus `json:"new_status"`
}

// Tracker holds the local view of observed orders, newest first. It is an
// injectable container like Cart; unlike Cart it is safe for concurrent use
// because the push listener feeds it from its own goroutine.
//
// ApplyStatusUpdate deliberately performs no edge validation: whatever status
// a trusted push delivers is written in place. UIs derive their affordances
// from domain.OrderStatus.Next, so only legal transitions are ever offered,
// but out-of-order or duplicate pushes are absorbed rather than rejected.
type Tracker struct {
	mu      sync.Mutex
	orders  []domain.Order
	nextSeq uint64
	applied uint64
}

func NewTracker() *Tracker { return &Tracker{} }

// Orders returns a copy of the tracked set, newest first.
func (t *Tracker) Orders() []domain.Order {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.Order, len(t.orders))
	copy(out, t.orders)
	return out
}

func (t *Tracker) Get(orderID string) (domain.Order, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, o := range t.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return domain.Order{}, false
}

// Prepend records a newly observed order at the head of the set. An order
// already tracked under the same id is replaced in place instead.
func (t *Tracker) Prepend(o domain.Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.orders {
		if t.orders[i].ID == o.ID {
			t.orders[i] = o
			return
		}
	}
	t.orders = append([]domain.Order{o}, t.orders...)
}

// ApplyStatusUpdate overwrites the matching order's status field, touching
// nothing else. An unknown id is treated as a newly observed order and
// prepended; this recovers from a push racing ahead of the fetch that would
// have introduced the order.
func (t *Tracker) ApplyStatusUpdate(u StatusUpdate) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.orders {
		if t.orders[i].ID == u.OrderID {
			t.orders[i].Status = u.NewStatus
			return
		}
	}
	t.orders = append([]domain.Order{{
		ID:        u.OrderID,
		ShortCode: u.ShortCode,
		ShopID:    u.ShopID,
		Status:    u.NewStatus,
	}}, t.orders...)
}

// BeginFetch tags an outgoing fetch with a monotonic sequence number.
func (t *Tracker) BeginFetch() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextSeq++
	return t.nextSeq
}

// ApplyFetch replaces the tracked set with the fetch result, unless a newer
// fetch already landed; stale responses are discarded and false is returned.
func (t *Tracker) ApplyFetch(seq uint64, orders []domain.Order) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seq <= t.applied {
		return false
	}
	t.applied = seq
	t.orders = make([]domain.Order, len(orders))
	copy(t.orders, orders)
	return true
}
