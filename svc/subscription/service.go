package subscription

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/revuhub/entitlement/svc/catalog"
)

// maxUpdateAttempts bounds the reload-and-retry loop around optimistic
// version conflicts on counter updates.
const maxUpdateAttempts = 3

// Usage is the metered-counter view of a subscription.
type Usage struct {
	RepliesUsed  int64
	DisputesUsed int64
	ResetsAt     time.Time
}

// Service manages subscription lifecycle and usage metering for a business.
type Service interface {
	// Create starts a new subscription on the given plan. It fails with
	// ErrAlreadyExists when the business already has an active one.
	Create(ctx context.Context, businessID uuid.UUID, plan *catalog.Plan, annual bool) (*Subscription, error)

	// Upgrade moves the active subscription to a new plan. Usage counters
	// and the reset anchor carry over; the paid period restarts at now.
	Upgrade(ctx context.Context, businessID uuid.UUID, plan *catalog.Plan, annual bool) (*Subscription, error)

	// Cancel marks the subscription cancelled, keeping the record for
	// history. The business falls back to the default tier immediately.
	Cancel(ctx context.Context, businessID uuid.UUID, reason string) (*Subscription, error)

	// Suspend pauses an active subscription, Resume reactivates a
	// suspended one within its paid period.
	Suspend(ctx context.Context, businessID uuid.UUID) (*Subscription, error)
	Resume(ctx context.Context, businessID uuid.UUID) (*Subscription, error)

	// Get returns the business's most recent subscription, active or not.
	Get(ctx context.Context, businessID uuid.UUID) (*Subscription, error)

	// GetActive returns the subscription that is active right now, or
	// ErrNotFound.
	GetActive(ctx context.Context, businessID uuid.UUID) (*Subscription, error)

	// Usage returns the current counters, persisting a rollover when the
	// monthly window has lapsed.
	Usage(ctx context.Context, businessID uuid.UUID) (*Usage, error)

	// CanReply and CanDispute report whether one more unit fits under
	// limit. A negative limit means unlimited.
	CanReply(ctx context.Context, businessID uuid.UUID, limit int64) (bool, error)
	CanDispute(ctx context.Context, businessID uuid.UUID, limit int64) (bool, error)

	// ConsumeReply and ConsumeDispute atomically check the limit and
	// increment the counter, retrying on concurrent updates. They return
	// ErrQuotaExceeded when the limit is reached.
	ConsumeReply(ctx context.Context, businessID uuid.UUID, limit int64) error
	ConsumeDispute(ctx context.Context, businessID uuid.UUID, limit int64) error
}

type service struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// Option configures the subscription service.
type Option func(*service)

// WithClock overrides the time source, used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *service) { s.log = log }
}

// NewService returns a Service backed by store.
func NewService(store Store, opts ...Option) Service {
	if store == nil {
		panic("subscription: store is required")
	}
	s := &service{
		store: store,
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func periodEnd(start time.Time, annual bool) time.Time {
	if annual {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}

func (s *service) Create(ctx context.Context, businessID uuid.UUID, plan *catalog.Plan, annual bool) (*Subscription, error) {
	now := s.now()

	if _, err := s.store.ActiveByBusiness(ctx, businessID, now); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	sub := &Subscription{
		ID:           uuid.New(),
		BusinessID:   businessID,
		PlanID:       plan.ID,
		StartsAt:     now,
		EndsAt:       periodEnd(now, annual),
		Annual:       annual,
		Status:       StatusActive,
		UsageResetAt: now.AddDate(0, 1, 0),
	}
	if err := s.store.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "subscription created",
		"business_id", businessID, "plan_id", plan.ID, "annual", annual)
	return sub, nil
}

func (s *service) Upgrade(ctx context.Context, businessID uuid.UUID, plan *catalog.Plan, annual bool) (*Subscription, error) {
	now := s.now()
	sub, err := s.updateActive(ctx, businessID, func(sub *Subscription) error {
		sub.PlanID = plan.ID
		sub.Annual = annual
		sub.EndsAt = periodEnd(now, annual)
		// Counters and the reset anchor stay: an upgrade raises the
		// ceiling mid-window, it does not grant a fresh allowance.
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "subscription upgraded",
		"business_id", businessID, "plan_id", plan.ID, "annual", annual)
	return sub, nil
}

func (s *service) Cancel(ctx context.Context, businessID uuid.UUID, reason string) (*Subscription, error) {
	sub, err := s.Get(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if !sub.Status.CanTransition(StatusCancelled) {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	sub.Status = StatusCancelled
	sub.CancelledAt = &now
	sub.CancelReason = reason
	if err := s.store.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "subscription cancelled",
		"business_id", businessID, "reason", reason)
	return sub, nil
}

func (s *service) Suspend(ctx context.Context, businessID uuid.UUID) (*Subscription, error) {
	sub, err := s.updateActive(ctx, businessID, func(sub *Subscription) error {
		if !sub.Status.CanTransition(StatusSuspended) {
			return ErrInvalidTransition
		}
		sub.Status = StatusSuspended
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "subscription suspended", "business_id", businessID)
	return sub, nil
}

func (s *service) Resume(ctx context.Context, businessID uuid.UUID) (*Subscription, error) {
	sub, err := s.Get(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if sub.Status != StatusSuspended || !sub.Status.CanTransition(StatusActive) {
		return nil, ErrInvalidTransition
	}
	if !s.now().Before(sub.EndsAt) {
		return nil, ErrNotActive
	}

	sub.Status = StatusActive
	if err := s.store.Update(ctx, sub); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "subscription resumed", "business_id", businessID)
	return sub, nil
}

func (s *service) Get(ctx context.Context, businessID uuid.UUID) (*Subscription, error) {
	return s.store.ByBusiness(ctx, businessID)
}

func (s *service) GetActive(ctx context.Context, businessID uuid.UUID) (*Subscription, error) {
	return s.store.ActiveByBusiness(ctx, businessID, s.now())
}

func (s *service) Usage(ctx context.Context, businessID uuid.UUID) (*Usage, error) {
	var usage *Usage
	_, err := s.updateActive(ctx, businessID, func(sub *Subscription) error {
		sub.CheckAndRolloverAt(s.now())
		usage = &Usage{
			RepliesUsed:  sub.RepliesUsed,
			DisputesUsed: sub.DisputesUsed,
			ResetsAt:     sub.UsageResetAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return usage, nil
}

func (s *service) CanReply(ctx context.Context, businessID uuid.UUID, limit int64) (bool, error) {
	return s.canConsume(ctx, businessID, MeterReplies, limit)
}

func (s *service) CanDispute(ctx context.Context, businessID uuid.UUID, limit int64) (bool, error) {
	return s.canConsume(ctx, businessID, MeterDisputes, limit)
}

func (s *service) ConsumeReply(ctx context.Context, businessID uuid.UUID, limit int64) error {
	return s.consume(ctx, businessID, MeterReplies, limit)
}

func (s *service) ConsumeDispute(ctx context.Context, businessID uuid.UUID, limit int64) error {
	return s.consume(ctx, businessID, MeterDisputes, limit)
}

// canConsume answers the quota question and, like Usage, writes back any
// rollover it applied so the stored counters stay current.
func (s *service) canConsume(ctx context.Context, businessID uuid.UUID, m Meter, limit int64) (bool, error) {
	var ok bool
	_, err := s.updateActive(ctx, businessID, func(sub *Subscription) error {
		ok = sub.CanConsumeAt(m, limit, s.now())
		return nil
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

// consume is the check-and-increment path. The limit check and the
// increment happen against one loaded record and are committed under its
// version guard, so two racing consumers cannot both take the last unit.
func (s *service) consume(ctx context.Context, businessID uuid.UUID, m Meter, limit int64) error {
	if !m.Valid() {
		return ErrUnknownMeter
	}
	_, err := s.updateActive(ctx, businessID, func(sub *Subscription) error {
		now := s.now()
		if !sub.CanConsumeAt(m, limit, now) {
			return ErrQuotaExceeded
		}
		sub.ConsumeAt(m, now)
		return nil
	})
	return err
}

// updateActive loads the active subscription, applies fn and writes it
// back, reloading and retrying when another writer wins the version race.
func (s *service) updateActive(ctx context.Context, businessID uuid.UUID, fn func(*Subscription) error) (*Subscription, error) {
	var lastErr error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		sub, err := s.store.ActiveByBusiness(ctx, businessID, s.now())
		if err != nil {
			return nil, err
		}
		if err := fn(sub); err != nil {
			return nil, err
		}
		if err := s.store.Update(ctx, sub); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return sub, nil
	}
	return nil, lastErr
}
