package pushgw

import (
	"context"
	"fmt"
	"net/http"

	"tabletap/internal/auth"
	"tabletap/internal/connections/rabbitmq"
	"tabletap/internal/httpx"
	"tabletap/internal/logger"
)

// Run serves the websocket endpoint and relays broker events into it until
// ctx is cancelled.
func Run(ctx context.Context, port int, rmq *rabbitmq.Client, am *auth.Manager, log *logger.Logger) error {
	hub := NewHub(log)
	done := make(chan struct{})
	defer close(done)
	go hub.Run(done)

	msgs, err := rmq.Consume(rabbitmq.PushQueue, "push-gateway", 16)
	if err != nil {
		return fmt.Errorf("consume %s: %w", rabbitmq.PushQueue, err)
	}
	relay := NewRelay(hub, log)
	go relay.Consume(msgs)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", ServeWS(hub, am))

	log.Info("push_gateway_listening", map[string]any{"port": port})
	return httpx.New(fmt.Sprintf(":%d", port), mux).Run(ctx)
}
