package subscription_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revuhub/entitlement/svc/subscription"
)

func testSub(resetAt time.Time) *subscription.Subscription {
	return &subscription.Subscription{
		ID:           uuid.New(),
		BusinessID:   uuid.New(),
		PlanID:       uuid.New(),
		StartsAt:     resetAt.AddDate(0, -1, 0),
		EndsAt:       resetAt.AddDate(1, 0, 0),
		Status:       subscription.StatusActive,
		UsageResetAt: resetAt,
	}
}

func TestCheckAndRolloverAt(t *testing.T) {
	t.Parallel()

	reset := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("no rollover inside the window", func(t *testing.T) {
		t.Parallel()
		sub := testSub(reset)
		sub.RepliesUsed = 7

		rolled := sub.CheckAndRolloverAt(reset.Add(-time.Hour))
		assert.False(t, rolled)
		assert.EqualValues(t, 7, sub.RepliesUsed)
		assert.Equal(t, reset, sub.UsageResetAt)
	})

	t.Run("rollover zeroes counters and advances one month", func(t *testing.T) {
		t.Parallel()
		sub := testSub(reset)
		sub.RepliesUsed = 7
		sub.DisputesUsed = 3

		rolled := sub.CheckAndRolloverAt(reset)
		assert.True(t, rolled)
		assert.Zero(t, sub.RepliesUsed)
		assert.Zero(t, sub.DisputesUsed)
		assert.Equal(t, reset.AddDate(0, 1, 0), sub.UsageResetAt)
	})

	t.Run("second call within the new window is a no-op", func(t *testing.T) {
		t.Parallel()
		sub := testSub(reset)
		now := reset.Add(time.Hour)

		require.True(t, sub.CheckAndRolloverAt(now))
		sub.RepliesUsed = 2

		assert.False(t, sub.CheckAndRolloverAt(now))
		assert.EqualValues(t, 2, sub.RepliesUsed)
		assert.Equal(t, reset.AddDate(0, 1, 0), sub.UsageResetAt)
	})

	t.Run("long idle catches up in one call", func(t *testing.T) {
		t.Parallel()
		sub := testSub(reset)
		now := reset.AddDate(0, 3, 0)

		require.True(t, sub.CheckAndRolloverAt(now))
		assert.Equal(t, reset.AddDate(0, 4, 0), sub.UsageResetAt)
		assert.False(t, sub.CheckAndRolloverAt(now))
	})

	t.Run("anchor stays on the previous marker, not on now", func(t *testing.T) {
		t.Parallel()
		sub := testSub(reset)

		sub.CheckAndRolloverAt(reset.Add(9 * 24 * time.Hour))
		assert.Equal(t, reset.AddDate(0, 1, 0), sub.UsageResetAt)
	})
}

func TestMeter(t *testing.T) {
	t.Parallel()

	reset := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	now := reset.Add(-time.Hour)

	t.Run("strict less-than limit check", func(t *testing.T) {
		t.Parallel()
		sub := testSub(reset)
		sub.RepliesUsed = 9

		assert.True(t, sub.CanConsumeAt(subscription.MeterReplies, 10, now))
		sub.ConsumeAt(subscription.MeterReplies, now)
		assert.False(t, sub.CanConsumeAt(subscription.MeterReplies, 10, now))
	})

	t.Run("negative limit is unlimited", func(t *testing.T) {
		t.Parallel()
		sub := testSub(reset)
		sub.DisputesUsed = 1 << 40

		assert.True(t, sub.CanConsumeAt(subscription.MeterDisputes, -1, now))
	})

	t.Run("zero limit closes the dimension", func(t *testing.T) {
		t.Parallel()
		sub := testSub(reset)
		assert.False(t, sub.CanConsumeAt(subscription.MeterDisputes, 0, now))
	})

	t.Run("consume rolls over first", func(t *testing.T) {
		t.Parallel()
		sub := testSub(reset)
		sub.RepliesUsed = 99

		sub.ConsumeAt(subscription.MeterReplies, reset.Add(time.Hour))
		assert.EqualValues(t, 1, sub.RepliesUsed)
	})
}

func TestStatusTransitions(t *testing.T) {
	t.Parallel()

	assert.True(t, subscription.StatusActive.CanTransition(subscription.StatusSuspended))
	assert.True(t, subscription.StatusActive.CanTransition(subscription.StatusCancelled))
	assert.True(t, subscription.StatusSuspended.CanTransition(subscription.StatusActive))
	assert.True(t, subscription.StatusPendingPayment.CanTransition(subscription.StatusActive))

	// Cancelled and expired are terminal.
	assert.False(t, subscription.StatusCancelled.CanTransition(subscription.StatusActive))
	assert.False(t, subscription.StatusExpired.CanTransition(subscription.StatusActive))
	assert.False(t, subscription.StatusExpired.CanTransition(subscription.StatusCancelled))
}

func TestIsActiveAt(t *testing.T) {
	t.Parallel()

	reset := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	sub := testSub(reset)

	assert.True(t, sub.IsActiveAt(sub.EndsAt.Add(-time.Second)))
	assert.False(t, sub.IsActiveAt(sub.EndsAt))

	sub.Status = subscription.StatusSuspended
	assert.False(t, sub.IsActiveAt(sub.StartsAt))
}
