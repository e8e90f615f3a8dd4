package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Meter names a consumable usage dimension tracked on the subscription
// record. Sources and users are structural limits checked against live
// counts elsewhere, so only replies and disputes are metered here.
type Meter string

const (
	MeterReplies  Meter = "replies"
	MeterDisputes Meter = "disputes"
)

// Valid reports whether m is a known meter.
func (m Meter) Valid() bool {
	return m == MeterReplies || m == MeterDisputes
}

// Subscription is a business's paid plan assignment together with its
// usage counters. Counters and the reset marker live on the record so a
// quota decision needs a single row read.
type Subscription struct {
	ID         uuid.UUID
	BusinessID uuid.UUID
	PlanID     uuid.UUID

	StartsAt time.Time
	EndsAt   time.Time
	Annual   bool
	Status   Status

	RepliesUsed  int64
	DisputesUsed int64
	UsageResetAt time.Time

	CancelledAt  *time.Time
	CancelReason string

	// Version guards concurrent counter updates. Stores increment it on
	// every successful write and reject writes carrying a stale value.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActiveAt reports whether the subscription grants entitlements at now:
// status active and the paid period not yet over.
func (s *Subscription) IsActiveAt(now time.Time) bool {
	return s.Status == StatusActive && now.Before(s.EndsAt)
}

// CheckAndRolloverAt resets the usage counters when the monthly window has
// lapsed and reports whether it did. The next reset is anchored on
// calendar months after the previous marker, not after now, so the billing
// anniversary never drifts. After a long idle stretch the marker catches
// up past now in a single call, which keeps the operation idempotent: an
// immediate second call is always a no-op.
func (s *Subscription) CheckAndRolloverAt(now time.Time) bool {
	if now.Before(s.UsageResetAt) {
		return false
	}
	s.RepliesUsed = 0
	s.DisputesUsed = 0
	for !now.Before(s.UsageResetAt) {
		s.UsageResetAt = s.UsageResetAt.AddDate(0, 1, 0)
	}
	return true
}

// UsedAt returns the counter for m after applying any due rollover.
func (s *Subscription) UsedAt(m Meter, now time.Time) int64 {
	s.CheckAndRolloverAt(now)
	switch m {
	case MeterReplies:
		return s.RepliesUsed
	case MeterDisputes:
		return s.DisputesUsed
	default:
		return 0
	}
}

// CanConsumeAt reports whether one more unit of m fits under limit.
// A negative limit means unlimited; zero means the dimension is closed.
func (s *Subscription) CanConsumeAt(m Meter, limit int64, now time.Time) bool {
	if limit < 0 {
		return true
	}
	return s.UsedAt(m, now) < limit
}

// ConsumeAt applies any due rollover and increments the counter for m.
// It does not check limits; pair with CanConsumeAt or use Service.Consume.
func (s *Subscription) ConsumeAt(m Meter, now time.Time) {
	s.CheckAndRolloverAt(now)
	switch m {
	case MeterReplies:
		s.RepliesUsed++
	case MeterDisputes:
		s.DisputesUsed++
	}
}
