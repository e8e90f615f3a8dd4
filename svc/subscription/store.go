package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists subscription records.
//
// Update is an optimistic-concurrency write: implementations compare the
// carried Version against the stored one, reject stale writes with
// ErrVersionConflict and increment the version on success (both in storage
// and on the passed record).
type Store interface {
	// Create inserts a new subscription. It returns ErrAlreadyExists when
	// the business already holds an active one.
	Create(ctx context.Context, sub *Subscription) error

	// Update writes sub back under its version guard.
	Update(ctx context.Context, sub *Subscription) error

	// ByID returns the subscription with the given id or ErrNotFound.
	ByID(ctx context.Context, id uuid.UUID) (*Subscription, error)

	// ActiveByBusiness returns the business's subscription that is active
	// at now, or ErrNotFound.
	ActiveByBusiness(ctx context.Context, businessID uuid.UUID, now time.Time) (*Subscription, error)

	// ByBusiness returns the business's most recent subscription in any
	// status, or ErrNotFound.
	ByBusiness(ctx context.Context, businessID uuid.UUID) (*Subscription, error)

	// ExpireDue flips active subscriptions whose period ended on or before
	// now to expired and returns how many it touched.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}
