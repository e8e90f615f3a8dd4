package subscription

import "errors"

var (
	// ErrNotFound is returned when no subscription matches the lookup.
	ErrNotFound = errors.New("subscription not found")

	// ErrAlreadyExists is returned when a business already holds an active
	// subscription and a second one is requested.
	ErrAlreadyExists = errors.New("active subscription already exists for business")

	// ErrInvalidTransition is returned for a status change the lifecycle
	// table does not allow.
	ErrInvalidTransition = errors.New("invalid subscription status transition")

	// ErrVersionConflict is returned by stores when an update loses the
	// optimistic-concurrency race. Callers reload and retry.
	ErrVersionConflict = errors.New("subscription was modified concurrently")

	// ErrQuotaExceeded is returned when a metered consume would pass the
	// plan limit.
	ErrQuotaExceeded = errors.New("usage quota exceeded")

	// ErrNotActive is returned when an operation requires an active
	// subscription and the stored one is not.
	ErrNotActive = errors.New("subscription is not active")

	// ErrUnknownStatus is returned when a stored status string is not part
	// of the lifecycle.
	ErrUnknownStatus = errors.New("unknown subscription status")

	// ErrUnknownMeter is returned for a meter name outside the metered
	// dimensions.
	ErrUnknownMeter = errors.New("unknown usage meter")
)
