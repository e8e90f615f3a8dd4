package subscription

import (
	"context"
	"log/slog"
	"time"
)

// defaultSweepInterval is how often the sweeper scans for lapsed
// subscriptions when no interval is configured.
const defaultSweepInterval = time.Hour

// Sweeper periodically flips subscriptions whose paid period has ended to
// expired. It only touches status; usage counters are left alone so the
// record still shows what the business consumed.
type Sweeper struct {
	store    Store
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// SweeperOption configures the sweeper.
type SweeperOption func(*Sweeper)

// WithSweepInterval sets the scan interval.
func WithSweepInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithSweeperLogger sets the logger.
func WithSweeperLogger(log *slog.Logger) SweeperOption {
	return func(s *Sweeper) { s.log = log }
}

// WithSweeperClock overrides the time source, used in tests.
func WithSweeperClock(now func() time.Time) SweeperOption {
	return func(s *Sweeper) { s.now = now }
}

// NewSweeper returns a sweeper over store.
func NewSweeper(store Store, opts ...SweeperOption) *Sweeper {
	if store == nil {
		panic("subscription: store is required")
	}
	s := &Sweeper{
		store:    store,
		interval: defaultSweepInterval,
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the sweep loop until ctx is cancelled. It sweeps once
// immediately, then on every tick, and returns ctx.Err() on shutdown.
// Sweep failures are logged and the loop keeps going.
func (s *Sweeper) Start(ctx context.Context) error {
	if _, err := s.RunOnce(ctx); err != nil {
		s.log.ErrorContext(ctx, "subscription sweep failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.log.ErrorContext(ctx, "subscription sweep failed", "error", err)
			}
		}
	}
}

// RunOnce performs a single sweep and returns how many subscriptions it
// expired.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	expired, err := s.store.ExpireDue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		s.log.InfoContext(ctx, "expired lapsed subscriptions", "count", expired)
	}
	return expired, nil
}
