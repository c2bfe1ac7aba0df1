package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusForwardProgression(t *testing.T) {
	want := []OrderStatus{StatusPending, StatusAccepted, StatusPreparing, StatusReady, StatusCompleted}
	s := StatusPending
	for i := 1; i < len(want); i++ {
		next, ok := s.Next()
		assert.True(t, ok, "status %s should have a next affordance", s)
		assert.Equal(t, want[i], next)
		s = next
	}
	_, ok := s.Next()
	assert.False(t, ok, "completed has no next affordance")
}

func TestStatusCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusPreparing, false},
		{StatusAccepted, StatusPreparing, true},
		{StatusAccepted, StatusPending, false},
		{StatusPreparing, StatusReady, true},
		{StatusReady, StatusCompleted, true},
		{StatusReady, StatusPreparing, false},
		{StatusCompleted, StatusPending, false},
		{StatusRejected, StatusAccepted, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []OrderStatus{StatusCompleted, StatusRejected, StatusCancelled} {
		assert.True(t, s.Terminal(), "%s", s)
	}
	for _, s := range []OrderStatus{StatusPending, StatusAccepted, StatusPreparing, StatusReady} {
		assert.False(t, s.Terminal(), "%s", s)
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPreparing.Valid())
	assert.False(t, OrderStatus("shipped").Valid())
}
