package catalog

import "fmt"

// Tier is an ordered subscription rank. Ordering matters: the upgrade chain
// walks Basic -> Premium -> Enterprise.
type Tier int

const (
	TierBasic Tier = iota + 1
	TierPremium
	TierEnterprise
)

// String returns the storage/wire form of the tier.
func (t Tier) String() string {
	switch t {
	case TierBasic:
		return "basic"
	case TierPremium:
		return "premium"
	case TierEnterprise:
		return "enterprise"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Valid reports whether the tier is one of the known ranks.
func (t Tier) Valid() bool {
	return t >= TierBasic && t <= TierEnterprise
}

// Label returns the display form of the tier for user-facing text.
func (t Tier) Label() string {
	switch t {
	case TierBasic:
		return "Basic"
	case TierPremium:
		return "Premium"
	case TierEnterprise:
		return "Enterprise"
	default:
		return t.String()
	}
}

// Next returns the successor in the upgrade chain.
// The second return value is false when the tier has no successor.
func (t Tier) Next() (Tier, bool) {
	if !t.Valid() || t == TierEnterprise {
		return 0, false
	}
	return t + 1, true
}

// ParseTier converts a storage/wire string into a Tier.
// Unknown values are a construction-time error, never a silent default.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "basic":
		return TierBasic, nil
	case "premium":
		return TierPremium, nil
	case "enterprise":
		return TierEnterprise, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
}

// Feature is a boolean plan capability. Features are never metered.
type Feature string

const (
	FeaturePrivateReviews       Feature = "private_reviews"
	FeatureDataAPI              Feature = "data_api"
	FeatureDNDMode              Feature = "dnd_mode"
	FeatureAutoResponse         Feature = "auto_response"
	FeatureBranchComparison     Feature = "branch_comparison"
	FeatureCompetitorComparison Feature = "competitor_comparison"
)

// AllFeatures lists every feature flag in its canonical order. The order is
// load-bearing: upgrade comparisons report gained features in this sequence.
var AllFeatures = []Feature{
	FeaturePrivateReviews,
	FeatureDataAPI,
	FeatureDNDMode,
	FeatureAutoResponse,
	FeatureBranchComparison,
	FeatureCompetitorComparison,
}

// Valid reports whether f is a known feature flag.
func (f Feature) Valid() bool {
	for _, known := range AllFeatures {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFeature converts a string into a Feature, rejecting unknown names.
func ParseFeature(s string) (Feature, error) {
	for _, f := range AllFeatures {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFeature, s)
}

// Quota identifies a limited plan dimension. Replies and disputes are metered
// monthly; sources and users are capacity limits consulted by the surrounding
// CRUD subsystems.
type Quota string

const (
	QuotaReplies  Quota = "replies"
	QuotaDisputes Quota = "disputes"
	QuotaSources  Quota = "sources"
	QuotaUsers    Quota = "users"
)

// allQuotas lists the known quota dimensions.
var allQuotas = []Quota{QuotaReplies, QuotaDisputes, QuotaSources, QuotaUsers}

// ParseQuota converts a string into a Quota, rejecting unknown names.
func ParseQuota(s string) (Quota, error) {
	for _, q := range allQuotas {
		if string(q) == s {
			return q, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQuota, s)
}

// Unlimited indicates no limit for a quota (-1 chosen for SQL compatibility).
const Unlimited int64 = -1
