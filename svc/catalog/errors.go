package catalog

import "errors"

var (
	ErrPlanNotFound             = errors.New("catalog: plan not found")
	ErrFailedToLoadPlans        = errors.New("catalog: failed to load plans")
	ErrInvalidPlanConfiguration = errors.New("catalog: invalid plan configuration")
	ErrDuplicateActiveTier      = errors.New("catalog: more than one active plan for tier")

	// ErrDefaultPlanMissing means the catalog has no active plan for the
	// configured default tier. Every business falls back to that plan, so
	// this is a fatal configuration error that should halt startup.
	ErrDefaultPlanMissing = errors.New("catalog: no active plan for the default tier")

	ErrUnknownTier    = errors.New("catalog: unknown tier")
	ErrUnknownFeature = errors.New("catalog: unknown feature")
	ErrUnknownQuota   = errors.New("catalog: unknown quota")
)
