package subscription_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revuhub/entitlement/svc/subscription"
)

func TestSweeper(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("expires lapsed subscriptions only", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		svc := subscription.NewService(store, subscription.WithClock(fixedClock(start)))

		lapsedBusiness := uuid.New()
		freshBusiness := uuid.New()
		_, err := svc.Create(ctx, lapsedBusiness, premiumPlan(), false)
		require.NoError(t, err)
		_, err = svc.Create(ctx, freshBusiness, premiumPlan(), true)
		require.NoError(t, err)
		require.NoError(t, svc.ConsumeReply(ctx, lapsedBusiness, 200))

		// Two months on: the monthly subscription has lapsed, the annual
		// one has not.
		later := start.AddDate(0, 2, 0)
		sweeper := subscription.NewSweeper(store,
			subscription.WithSweeperClock(fixedClock(later)))

		expired, err := sweeper.RunOnce(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, expired)

		lapsed, err := store.ByBusiness(ctx, lapsedBusiness)
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusExpired, lapsed.Status)
		// Expiry never touches the counters.
		assert.EqualValues(t, 1, lapsed.RepliesUsed)

		fresh, err := store.ActiveByBusiness(ctx, freshBusiness, later)
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusActive, fresh.Status)
	})

	t.Run("nothing due", func(t *testing.T) {
		t.Parallel()
		store := subscription.NewMemoryStore()
		sweeper := subscription.NewSweeper(store,
			subscription.WithSweeperClock(fixedClock(start)))

		expired, err := sweeper.RunOnce(ctx)
		require.NoError(t, err)
		assert.Zero(t, expired)
	})

	t.Run("start stops on context cancel", func(t *testing.T) {
		t.Parallel()
		sweeper := subscription.NewSweeper(subscription.NewMemoryStore(),
			subscription.WithSweepInterval(10*time.Millisecond))

		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() { done <- sweeper.Start(runCtx) }()

		time.Sleep(30 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("sweeper did not stop")
		}
	})
}

func TestMeterValid(t *testing.T) {
	t.Parallel()
	assert.True(t, subscription.MeterReplies.Valid())
	assert.True(t, subscription.MeterDisputes.Valid())
	assert.False(t, subscription.Meter("sources").Valid())
}
