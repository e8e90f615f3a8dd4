package entitlement

import (
	"context"

	"github.com/google/uuid"

	"github.com/revuhub/entitlement/svc/catalog"
)

// PlanSummary is the slice of a plan shown in upgrade comparisons.
type PlanSummary struct {
	ID           uuid.UUID
	Name         string
	Tier         catalog.Tier
	MonthlyPrice int64
	AnnualPrice  int64
	Currency     string
}

func summarize(p *catalog.Plan) PlanSummary {
	return PlanSummary{
		ID:           p.ID,
		Name:         p.Name,
		Tier:         p.Tier,
		MonthlyPrice: p.MonthlyPrice,
		AnnualPrice:  p.AnnualPrice,
		Currency:     p.Currency,
	}
}

// Comparison describes the next step up the tier chain from the business's
// effective plan.
type Comparison struct {
	Current     PlanSummary
	Recommended PlanSummary
	// GainedFeatures lists flags that flip from off to on, in the
	// canonical feature order.
	GainedFeatures []catalog.Feature
	// MonthlyPriceDelta is recommended minus current. Negative values can
	// only come from inconsistent catalog data and are passed through.
	MonthlyPriceDelta int64
}

// Advisor recommends the next tier for a business.
type Advisor struct {
	plans catalog.Service
	eval  *Evaluator
}

// NewAdvisor returns an Advisor using eval to resolve the current plan.
func NewAdvisor(plans catalog.Service, eval *Evaluator) *Advisor {
	if plans == nil {
		panic("entitlement: catalog service is required")
	}
	if eval == nil {
		panic("entitlement: evaluator is required")
	}
	return &Advisor{plans: plans, eval: eval}
}

// UpgradeComparison compares the business's effective plan with the active
// plan one tier up. A business already on the top tier gets nil, which is
// a complete answer, not an error.
func (a *Advisor) UpgradeComparison(ctx context.Context, businessID uuid.UUID) (*Comparison, error) {
	current, err := a.eval.EffectivePlan(ctx, businessID)
	if err != nil {
		return nil, err
	}

	nextTier, ok := current.Tier.Next()
	if !ok {
		return nil, nil
	}

	recommended, err := a.plans.ActiveByTier(ctx, nextTier)
	if err != nil {
		return nil, err
	}

	var gained []catalog.Feature
	for _, f := range catalog.AllFeatures {
		if recommended.HasFeature(f) && !current.HasFeature(f) {
			gained = append(gained, f)
		}
	}

	return &Comparison{
		Current:           summarize(current),
		Recommended:       summarize(recommended),
		GainedFeatures:    gained,
		MonthlyPriceDelta: recommended.MonthlyPrice - current.MonthlyPrice,
	}, nil
}
