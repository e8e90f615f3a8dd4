package entitlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/revuhub/entitlement/svc/catalog"
	"github.com/revuhub/entitlement/svc/subscription"
)

// requiredTiers is the fixed feature-to-tier mapping used in upgrade
// prompts. It is deliberately independent of the business's current tier:
// do-not-disturb mode always points at Enterprise, whatever plan the
// caller is on.
var requiredTiers = map[catalog.Feature]catalog.Tier{
	catalog.FeaturePrivateReviews:       catalog.TierPremium,
	catalog.FeatureAutoResponse:         catalog.TierPremium,
	catalog.FeatureCompetitorComparison: catalog.TierPremium,
	catalog.FeatureDataAPI:              catalog.TierEnterprise,
	catalog.FeatureDNDMode:              catalog.TierEnterprise,
	catalog.FeatureBranchComparison:     catalog.TierEnterprise,
}

// featureLabels are the human-readable names used in upgrade prompts.
var featureLabels = map[catalog.Feature]string{
	catalog.FeaturePrivateReviews:       "private reviews",
	catalog.FeatureDataAPI:              "data API access",
	catalog.FeatureDNDMode:              "do-not-disturb mode",
	catalog.FeatureAutoResponse:         "automatic responses",
	catalog.FeatureBranchComparison:     "branch comparison",
	catalog.FeatureCompetitorComparison: "competitor comparison",
}

// FeatureAvailability is the answer to "can this business use feature X,
// and if not, what should we tell them".
type FeatureAvailability struct {
	Available    bool
	RequiredTier catalog.Tier
	// Message is an upgrade prompt, empty when the feature is available.
	Message string
}

// Evaluator resolves a business's effective plan and answers entitlement
// questions against it. It is stateless; all state lives in the catalog
// and the subscription store.
type Evaluator struct {
	plans catalog.Service
	subs  subscription.Service
}

// NewEvaluator returns an Evaluator over the given catalog and
// subscription services.
func NewEvaluator(plans catalog.Service, subs subscription.Service) *Evaluator {
	if plans == nil {
		panic("entitlement: catalog service is required")
	}
	if subs == nil {
		panic("entitlement: subscription service is required")
	}
	return &Evaluator{plans: plans, subs: subs}
}

// EffectivePlan resolves the plan whose entitlements apply to the business
// right now. Without an active subscription the business sits on the
// catalog's default tier, so every business always resolves to a plan.
func (e *Evaluator) EffectivePlan(ctx context.Context, businessID uuid.UUID) (*catalog.Plan, error) {
	sub, err := e.subs.GetActive(ctx, businessID)
	if err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			return e.plans.Default(ctx)
		}
		return nil, err
	}
	return e.plans.ByID(ctx, sub.PlanID)
}

// CanPerform reports whether the business may perform the action right
// now. Metered actions consult the usage counters against the effective
// plan's quota; feature actions read the plan flag.
func (e *Evaluator) CanPerform(ctx context.Context, businessID uuid.UUID, action Action) (bool, error) {
	plan, err := e.EffectivePlan(ctx, businessID)
	if err != nil {
		return false, err
	}

	switch action {
	case ActionReply:
		return e.canConsume(ctx, businessID, plan.LimitFor(catalog.QuotaReplies), e.subs.CanReply)
	case ActionDispute:
		return e.canConsume(ctx, businessID, plan.LimitFor(catalog.QuotaDisputes), e.subs.CanDispute)
	}

	if f, ok := action.Feature(); ok {
		return plan.HasFeature(f), nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

// canConsume asks the usage meter. A business with no subscription record
// has never consumed anything, so the check reduces to whether the quota
// dimension is open at all.
func (e *Evaluator) canConsume(ctx context.Context, businessID uuid.UUID, limit int64,
	check func(context.Context, uuid.UUID, int64) (bool, error),
) (bool, error) {
	ok, err := check(ctx, businessID, limit)
	if err != nil {
		if errors.Is(err, subscription.ErrNotFound) {
			return limit != 0, nil
		}
		return false, err
	}
	return ok, nil
}

// CheckFeature resolves the effective plan and reports whether it carries
// the feature, along with the fixed tier requirement and an upgrade prompt
// when it does not.
func (e *Evaluator) CheckFeature(ctx context.Context, businessID uuid.UUID, feature catalog.Feature) (FeatureAvailability, error) {
	if !feature.Valid() {
		return FeatureAvailability{}, fmt.Errorf("%w: %q", catalog.ErrUnknownFeature, feature)
	}

	plan, err := e.EffectivePlan(ctx, businessID)
	if err != nil {
		return FeatureAvailability{}, err
	}

	required := requiredTiers[feature]
	if plan.HasFeature(feature) {
		return FeatureAvailability{Available: true, RequiredTier: required}, nil
	}
	return FeatureAvailability{
		Available:    false,
		RequiredTier: required,
		Message:      fmt.Sprintf("Upgrade to %s to unlock %s.", required.Label(), featureLabels[feature]),
	}, nil
}
