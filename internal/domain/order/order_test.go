package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placedOrder() *Order {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &Order{
		ID:        "order-1",
		UserID:    "user-1",
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
		Timeline: []TimelineEntry{
			{Status: "placed", Timestamp: now, Description: "Your order has been placed successfully"},
		},
	}
}

// ============================================
// Transition Matrix Tests
// ============================================

func TestOrder_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			o := &Order{Status: tt.from}
			assert.Equal(t, tt.allowed, o.CanTransitionTo(tt.to))
		})
	}
}

func TestOrder_HappyPath(t *testing.T) {
	o := placedOrder()
	now := o.CreatedAt

	for _, step := range []Status{StatusProcessing, StatusShipped, StatusDelivered} {
		now = now.Add(time.Hour)
		require.NoError(t, o.TransitionTo(step, "step "+string(step), now))
	}

	assert.Equal(t, StatusDelivered, o.Status)
	require.Len(t, o.Timeline, 4)
	assert.Equal(t, "delivered", o.Timeline[3].Status)
	assert.Equal(t, now, o.UpdatedAt)
}

func TestOrder_TransitionAppendsTimeline(t *testing.T) {
	o := placedOrder()
	at := o.CreatedAt.Add(time.Hour)

	require.NoError(t, o.TransitionTo(StatusProcessing, "Your order is being processed", at))

	require.Len(t, o.Timeline, 2)
	assert.Equal(t, "processing", o.Timeline[1].Status)
	assert.Equal(t, "Your order is being processed", o.Timeline[1].Description)
	assert.Equal(t, at, o.Timeline[1].Timestamp)
}

func TestOrder_CancelFromPendingAndProcessing(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusProcessing} {
		o := &Order{Status: from}
		err := o.TransitionTo(StatusCancelled, "customer request", time.Now())
		require.NoError(t, err, "cancel from %s", from)
		assert.Equal(t, StatusCancelled, o.Status)
	}
}

func TestOrder_InvalidTransitions(t *testing.T) {
	o := &Order{Status: StatusPending}
	err := o.TransitionTo(StatusDelivered, "", time.Now())
	assert.ErrorIs(t, err, ErrInvalidStatus)

	o = &Order{Status: StatusCancelled}
	err = o.TransitionTo(StatusProcessing, "", time.Now())
	assert.ErrorIs(t, err, ErrOrderCancelled)

	o = &Order{Status: StatusDelivered}
	err = o.TransitionTo(StatusCancelled, "", time.Now())
	assert.ErrorIs(t, err, ErrOrderDelivered)
}

func TestOrder_FailedTransitionLeavesOrderUntouched(t *testing.T) {
	o := placedOrder()

	_ = o.TransitionTo(StatusShipped, "skip ahead", o.CreatedAt.Add(time.Hour))

	assert.Equal(t, StatusPending, o.Status)
	assert.Len(t, o.Timeline, 1)
	assert.Equal(t, o.CreatedAt, o.UpdatedAt)
}
