package catalog

import (
	"slices"

	"github.com/google/uuid"
)

// Plan describes one version of a subscription tier: prices, quotas and
// feature flags. Plans are reference data, rarely mutated; inactive plans are
// excluded from listings and from fallback resolution.
type Plan struct {
	ID           uuid.UUID
	Name         string
	Tier         Tier
	MonthlyPrice int64 // minor currency units
	AnnualPrice  int64 // minor currency units
	Currency     string
	Limits       map[Quota]int64 // -1 represents unlimited
	Features     []Feature
	Active       bool
}

// PriceFor returns the annual or monthly price in minor units.
func (p Plan) PriceFor(annual bool) int64 {
	if annual {
		return p.AnnualPrice
	}
	return p.MonthlyPrice
}

// HasFeature reports whether the plan grants the given feature flag.
func (p Plan) HasFeature(f Feature) bool {
	return slices.Contains(p.Features, f)
}

// LimitFor returns the plan's limit for the quota.
// A quota absent from the plan means the dimension is not available (0).
func (p Plan) LimitFor(q Quota) int64 {
	limit, ok := p.Limits[q]
	if !ok {
		return 0
	}
	return limit
}

// IsUnlimited reports whether the quota carries the unlimited sentinel.
func (p Plan) IsUnlimited(q Quota) bool {
	return p.LimitFor(q) == Unlimited
}

// clone returns a deep copy so callers cannot mutate catalog state.
func (p Plan) clone() Plan {
	cp := p
	cp.Features = slices.Clone(p.Features)
	if p.Limits != nil {
		cp.Limits = make(map[Quota]int64, len(p.Limits))
		for q, v := range p.Limits {
			cp.Limits[q] = v
		}
	}
	return cp
}
