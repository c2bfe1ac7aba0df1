package domain

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusRejected  OrderStatus = "rejected"
	StatusCancelled OrderStatus = "cancelled"
)

// edges is the legal forward progression. Pending may also be rejected or
// cancelled; everything else moves one step toward completed.
var edges = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:  {StatusPreparing},
	StatusPreparing: {StatusReady},
	StatusReady:     {StatusCompleted},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPreparing, StatusReady,
		StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

// Next returns the single forward affordance a UI should offer for this
// status. Rejection/cancellation are alternatives to accepting a pending
// order, not a second affordance.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := edges[s]
	if !ok || len(next) == 0 {
		return "", false
	}
	return next[0], true
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, n := range edges[s] {
		if n == to {
			return true
		}
	}
	return false
}
