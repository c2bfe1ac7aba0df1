package pushgw

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabletap/internal/auth"
	"tabletap/internal/domain"
	"tabletap/internal/logger"
)

func testLogger() *logger.Logger { return logger.NewWriter("test", io.Discard) }

func TestDispatchRoutesStatusChangeToBothRooms(t *testing.T) {
	hub := NewHub(testLogger())
	relay := NewRelay(hub, testLogger())

	ev := domain.OrderStatusChanged{
		OrderID: "o1", ShopID: "shop-1", CustomerID: "cust-1",
		OldStatus: domain.StatusPending, NewStatus: domain.StatusAccepted,
	}
	body, _ := json.Marshal(ev)
	require.NoError(t, relay.dispatch("order.status.shop-1", body))

	rooms := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case msg := <-hub.broadcast:
			rooms[msg.room] = true
			var frame domain.EventFrame
			require.NoError(t, json.Unmarshal(msg.data, &frame))
			assert.Equal(t, domain.EventOrderStatusChanged, frame.Event)
		case <-time.After(time.Second):
			t.Fatal("expected two broadcasts")
		}
	}
	assert.True(t, rooms["shop:shop-1"])
	assert.True(t, rooms["customer:cust-1"])
}

func TestDispatchRejectsGarbage(t *testing.T) {
	relay := NewRelay(NewHub(testLogger()), testLogger())
	assert.Error(t, relay.dispatch("order.created.shop-1", []byte("not json")))
}

func TestDispatchIgnoresUnknownKeys(t *testing.T) {
	relay := NewRelay(NewHub(testLogger()), testLogger())
	assert.NoError(t, relay.dispatch("worker.heartbeat", []byte(`{}`)))
}

func TestWebSocketJoinAndReceive(t *testing.T) {
	am := auth.NewManager("test-secret", time.Hour)
	hub := NewHub(testLogger())
	done := make(chan struct{})
	defer close(done)
	go hub.Run(done)

	srv := httptest.NewServer(ServeWS(hub, am))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	tok, err := am.Issue("cust-1", auth.RoleCustomer, "")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+tok, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(domain.JoinFrame{Action: "join", Room: "customer:cust-1"}))

	// give the hub time to register before broadcasting
	require.Eventually(t, func() bool {
		hub.Broadcast("customer:cust-1", []byte(`{"event":"order_status_changed","data":{}}`))
		_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		_, msg, err := conn.ReadMessage()
		return err == nil && strings.Contains(string(msg), "order_status_changed")
	}, 3*time.Second, 100*time.Millisecond)
}

func TestWebSocketRejectsForeignRoom(t *testing.T) {
	am := auth.NewManager("test-secret", time.Hour)
	hub := NewHub(testLogger())
	done := make(chan struct{})
	defer close(done)
	go hub.Run(done)

	srv := httptest.NewServer(ServeWS(hub, am))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	tok, _ := am.Issue("cust-1", auth.RoleCustomer, "")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+tok, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(domain.JoinFrame{Action: "join", Room: "customer:someone-else"}))

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	if err == nil {
		assert.Contains(t, string(msg), "room not allowed")
	}
	// either way the server must have closed the connection
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestWebSocketRequiresToken(t *testing.T) {
	am := auth.NewManager("test-secret", time.Hour)
	hub := NewHub(testLogger())

	srv := httptest.NewServer(ServeWS(hub, am))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoomAllowed(t *testing.T) {
	vendor := &auth.Claims{Role: auth.RoleVendor, ShopID: "shop-1"}
	assert.True(t, roomAllowed(vendor, "shop:shop-1"))
	assert.False(t, roomAllowed(vendor, "shop:shop-2"))
	assert.False(t, roomAllowed(vendor, "customer:cust-1"))

	admin := &auth.Claims{Role: auth.RoleAdmin}
	assert.True(t, roomAllowed(admin, "shop:anything"))
}
