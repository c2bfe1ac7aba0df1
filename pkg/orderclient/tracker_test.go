package orderclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabletap/internal/domain"
)

func trackedOrder(id string, status domain.OrderStatus) domain.Order {
	return domain.Order{
		ID: id, ShortCode: "ORD_20260901_001", ShopID: "shop-1",
		Status:      status,
		Items:       []domain.OrderLine{{Name: "margherita", Quantity: 2, Price: 100}},
		TotalAmount: 200,
	}
}

func TestApplyStatusUpdateTouchesOnlyStatus(t *testing.T) {
	tr := NewTracker()
	tr.Prepend(trackedOrder("o1", domain.StatusPending))

	tr.ApplyStatusUpdate(StatusUpdate{OrderID: "o1", NewStatus: domain.StatusReady})

	got, ok := tr.Get("o1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusReady, got.Status)
	assert.Equal(t, 200.0, got.TotalAmount)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestApplyStatusUpdateUnknownIDPrepends(t *testing.T) {
	tr := NewTracker()
	tr.Prepend(trackedOrder("o1", domain.StatusPending))

	tr.ApplyStatusUpdate(StatusUpdate{OrderID: "o2", ShortCode: "ORD_20260901_002",
		NewStatus: domain.StatusAccepted})

	orders := tr.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID, "unknown order is prepended, not appended")
	assert.Equal(t, domain.StatusAccepted, orders[0].Status)
}

// The tracker accepts whatever a trusted push delivers, including
// transitions the legal edge set forbids.
func TestApplyStatusUpdateIsPermissive(t *testing.T) {
	tr := NewTracker()
	tr.Prepend(trackedOrder("o1", domain.StatusCompleted))

	tr.ApplyStatusUpdate(StatusUpdate{OrderID: "o1", NewStatus: domain.StatusPending})

	got, _ := tr.Get("o1")
	assert.Equal(t, domain.StatusPending, got.Status)
}

// After an accepted update the UI must offer exactly one next action.
func TestStatusAffordanceAfterUpdate(t *testing.T) {
	tr := NewTracker()
	tr.Prepend(trackedOrder("o1", domain.StatusPending))
	tr.ApplyStatusUpdate(StatusUpdate{OrderID: "o1", NewStatus: domain.StatusAccepted})

	got, _ := tr.Get("o1")
	next, ok := got.Status.Next()
	require.True(t, ok)
	assert.Equal(t, domain.StatusPreparing, next)
}

func TestPrependReplacesExisting(t *testing.T) {
	tr := NewTracker()
	tr.Prepend(trackedOrder("o1", domain.StatusPending))
	tr.Prepend(trackedOrder("o1", domain.StatusAccepted))

	orders := tr.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, domain.StatusAccepted, orders[0].Status)
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	tr := NewTracker()

	seqOld := tr.BeginFetch()
	seqNew := tr.BeginFetch()

	// the newer request resolves first
	require.True(t, tr.ApplyFetch(seqNew, []domain.Order{trackedOrder("fresh", domain.StatusReady)}))

	// the older response arrives late and must not overwrite newer state
	assert.False(t, tr.ApplyFetch(seqOld, []domain.Order{trackedOrder("stale", domain.StatusPending)}))

	orders := tr.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "fresh", orders[0].ID)
}
