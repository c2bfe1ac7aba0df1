package domain

import (
	"encoding/json"
	"time"
)

// Event names carried on the push channel.
const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

type OrderCreated struct {
	Order      Order     `json:"order"`
	OccurredAt time.Time `json:"occurred_at"`
}

// JoinFrame is the single message a push client sends after connecting.
type JoinFrame struct {
	Action string `json:"action"` // always "join"
	Room   string `json:"room"`   // "customer:<id>" or "shop:<id>"
}

// EventFrame wraps every event delivered over the push channel.
type EventFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func CustomerRoom(customerID string) string { return "customer:" + customerID }
func ShopRoom(shopID string) string         { return "shop:" + shopID }

type OrderStatusChanged struct {
	OrderID    string      `json:"order_id"`
	ShortCode  string      `json:"short_code"`
	ShopID     string      `json:"shop_id"`
	CustomerID string      `json:"customer_id"`
	OldStatus  OrderStatus `json:"old_status"`
	NewStatus  OrderStatus `json:"new_status"`
	ChangedBy  string      `json:"changed_by"`
	OccurredAt time.Time   `json:"occurred_at"`
}
