package orderclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabletap/internal/domain"
	"tabletap/internal/logger"
)

func testLogger() *logger.Logger { return logger.NewWriter("test", io.Discard) }

func loadedCart() *Cart {
	c := NewCart()
	c.AddItem(pizza())
	c.AddItem(pizza())
	c.SetTable(TableRef{ID: "tab-1"})
	return c
}

func TestPlaceOrderEmptyCartNoNetworkCall(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	cart := NewCart()
	cart.SetTable(TableRef{ID: "tab-1"})
	svc := NewService(New(srv.URL), cart, NewTracker(), "cust-1", testLogger())

	_, err := svc.PlaceOrder(context.Background(), "shop-1")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, int64(0), atomic.LoadInt64(&calls), "validation must short-circuit before any network call")
}

func TestPlaceOrderRequiresTableAndShop(t *testing.T) {
	svc := NewService(New("http://unreachable.invalid"), func() *Cart {
		c := NewCart()
		c.AddItem(pizza())
		return c
	}(), NewTracker(), "cust-1", testLogger())

	_, err := svc.PlaceOrder(context.Background(), "shop-1")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "table")

	cart := loadedCart()
	svc = NewService(New("http://unreachable.invalid"), cart, NewTracker(), "cust-1", testLogger())
	_, err = svc.PlaceOrder(context.Background(), "")
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "shop")
}

func TestPlaceOrderSuccessClearsCartOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"message":"cart synced"}`))
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"data":{"id":"srv-1","short_code":"ORD_20260901_001","shop_id":"shop-1","status":"pending","total_amount":200}}`))
		}
	}))
	defer srv.Close()

	cart := loadedCart()
	tracker := NewTracker()
	svc := NewService(New(srv.URL), cart, tracker, "cust-1", testLogger())

	order, err := svc.PlaceOrder(context.Background(), "shop-1")
	require.NoError(t, err)

	assert.Equal(t, "srv-1", order.ID, "server-confirmed identifier is authoritative")
	assert.True(t, cart.Empty())

	tracked := tracker.Orders()
	require.Len(t, tracked, 1)
	assert.Equal(t, "srv-1", tracked[0].ID)
}

func TestPlaceOrderCreationFailureLeavesCartUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"type":"create_failed","detail":"db down"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cart := loadedCart()
	svc := NewService(New(srv.URL), cart, NewTracker(), "cust-1", testLogger())

	_, err := svc.PlaceOrder(context.Background(), "shop-1")
	var serr *SubmissionError
	require.ErrorAs(t, err, &serr)

	assert.False(t, cart.Empty(), "failed submission must not clear the cart")
	assert.Equal(t, 2, cart.TotalItems())
	_, ok := cart.Table()
	assert.True(t, ok)
}

func TestPlaceOrderToleratesSyncFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"srv-2","status":"pending"}}`))
	}))
	defer srv.Close()

	cart := loadedCart()
	svc := NewService(New(srv.URL), cart, NewTracker(), "cust-1", testLogger())

	order, err := svc.PlaceOrder(context.Background(), "shop-1")
	require.NoError(t, err, "cart sync is advisory, not transactional")
	assert.Equal(t, "srv-2", order.ID)
	assert.True(t, cart.Empty())
}

func TestOrderNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"type":"not_found","detail":"order not found"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Order(context.Background(), "missing")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestNetworkErrorOnUnreachableHost(t *testing.T) {
	_, err := New("http://127.0.0.1:1").Order(context.Background(), "o1")
	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Error(t, errors.Unwrap(ne))
}

func TestNormalizeHandlesBothShapes(t *testing.T) {
	wrapped := normalize([]byte(`{"data":{"id":"o1"}}`))
	bare := normalize([]byte(`{"id":"o1"}`))
	assert.JSONEq(t, string(wrapped), string(bare))
}

func TestMyOrdersDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[{"id":"o1","status":"ready"},{"id":"o2","status":"pending"}]}`))
	}))
	defer srv.Close()

	orders, err := New(srv.URL, WithToken("tok-1")).MyOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, domain.StatusReady, orders[0].Status)
}

func TestRefreshOrdersPopulatesTracker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"o1","status":"preparing"}]}`))
	}))
	defer srv.Close()

	tracker := NewTracker()
	svc := NewService(New(srv.URL), NewCart(), tracker, "cust-1", testLogger())
	require.NoError(t, svc.RefreshOrders(context.Background()))

	orders := tracker.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, domain.StatusPreparing, orders[0].Status)
}
