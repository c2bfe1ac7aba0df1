package orderclient

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"tabletap/internal/domain"
	"tabletap/internal/logger"
)

// Listener bridges the push channel into a Tracker. It joins exactly one
// room per connection and re-joins after every reconnect.
//
// Disconnecting never clears tracked orders, and reconnecting does not
// resynchronize by itself: events missed while offline are only recovered by
// an explicit Service.RefreshOrders.
type Listener struct {
	url     string
	room    string
	token   string
	tracker *Tracker
	log     *logger.Logger
	dialer  *websocket.Dialer

	baseBackoff time.Duration
	maxBackoff  time.Duration
}

func NewListener(url, room, token string, tracker *Tracker, log *logger.Logger) *Listener {
	return &Listener{
		url:         url,
		room:        room,
		token:       token,
		tracker:     tracker,
		log:         log,
		dialer:      websocket.DefaultDialer,
		baseBackoff: time.Second,
		maxBackoff:  30 * time.Second,
	}
}

// Run connects and dispatches events until ctx is cancelled, reconnecting
// with capped exponential backoff.
func (l *Listener) Run(ctx context.Context) error {
	backoff := l.baseBackoff
	for {
		if err := l.connectOnce(ctx); err != nil {
			l.log.Error("push_connection_lost", err, map[string]any{"room": l.room})
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff *= 2; backoff > l.maxBackoff {
			backoff = l.maxBackoff
		}
	}
}

func (l *Listener) connectOnce(ctx context.Context) error {
	conn, _, err := l.dialer.DialContext(ctx, l.url+"?token="+l.token, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// one join per connection lifetime
	if err := conn.WriteJSON(domain.JoinFrame{Action: "join", Room: l.room}); err != nil {
		return err
	}
	l.log.Info("push_joined", map[string]any{"room": l.room})

	// unblock reads when the context is cancelled
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		var frame domain.EventFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		l.dispatch(frame)
	}
}

func (l *Listener) dispatch(frame domain.EventFrame) {
	switch frame.Event {
	case domain.EventOrderCreated:
		var ev domain.OrderCreated
		if err := json.Unmarshal(frame.Data, &ev); err != nil {
			l.log.Error("push_decode_failed", err, map[string]any{"event": frame.Event})
			return
		}
		l.tracker.Prepend(ev.Order)

	case domain.EventOrderStatusChanged:
		var ev domain.OrderStatusChanged
		if err := json.Unmarshal(frame.Data, &ev); err != nil {
			l.log.Error("push_decode_failed", err, map[string]any{"event": frame.Event})
			return
		}
		l.tracker.ApplyStatusUpdate(StatusUpdate{
			OrderID:   ev.OrderID,
			ShortCode: ev.ShortCode,
			ShopID:    ev.ShopID,
			NewStatus: ev.NewStatus,
		})

	default:
		l.log.Debug("push_event_ignored", map[string]any{"event": frame.Event})
	}
}
