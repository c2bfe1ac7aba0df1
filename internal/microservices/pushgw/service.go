package pushgw

import (
	"encoding/json"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"tabletap/internal/connections/rabbitmq"
	"tabletap/internal/domain"
	"tabletap/internal/logger"
)

// Relay consumes order events from the broker and routes them to rooms.
type Relay struct {
	hub *Hub
	log *logger.Logger
}

func NewRelay(hub *Hub, log *logger.Logger) *Relay {
	return &Relay{hub: hub, log: log}
}

// Consume drains deliveries until the channel closes. Undecodable payloads
// are dead-lettered, everything else is acked after dispatch.
func (r *Relay) Consume(msgs <-chan amqp.Delivery) {
	for d := range msgs {
		if err := r.dispatch(d.RoutingKey, d.Body); err != nil {
			r.log.Error("event_dispatch_failed", err, map[string]any{"routing_key": d.RoutingKey})
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
}

func (r *Relay) dispatch(routingKey string, body []byte) error {
	switch {
	case strings.HasPrefix(routingKey, rabbitmq.KeyOrderCreated):
		var ev domain.OrderCreated
		if err := json.Unmarshal(body, &ev); err != nil {
			return err
		}
		frame, err := frameOf(domain.EventOrderCreated, ev)
		if err != nil {
			return err
		}
		// vendors need new orders; the placing customer gets the confirmation
		r.hub.Broadcast(domain.ShopRoom(ev.Order.ShopID), frame)
		r.hub.Broadcast(domain.CustomerRoom(ev.Order.CustomerID), frame)

	case strings.HasPrefix(routingKey, rabbitmq.KeyOrderStatus):
		var ev domain.OrderStatusChanged
		if err := json.Unmarshal(body, &ev); err != nil {
			return err
		}
		frame, err := frameOf(domain.EventOrderStatusChanged, ev)
		if err != nil {
			return err
		}
		r.hub.Broadcast(domain.ShopRoom(ev.ShopID), frame)
		r.hub.Broadcast(domain.CustomerRoom(ev.CustomerID), frame)

	default:
		r.log.Debug("event_ignored", map[string]any{"routing_key": routingKey})
	}
	return nil
}

func frameOf(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(domain.EventFrame{Event: event, Data: raw})
}
