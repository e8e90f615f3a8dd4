package entitlement_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revuhub/entitlement/svc/catalog"
	"github.com/revuhub/entitlement/svc/entitlement"
)

func TestUpgradeComparison(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("default tier recommends premium", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		advisor := entitlement.NewAdvisor(f.plans, f.eval)

		cmp, err := advisor.UpgradeComparison(ctx, uuid.New())
		require.NoError(t, err)
		require.NotNil(t, cmp)

		assert.Equal(t, catalog.TierBasic, cmp.Current.Tier)
		assert.Equal(t, catalog.TierPremium, cmp.Recommended.Tier)
		assert.Equal(t, f.premium.MonthlyPrice, cmp.MonthlyPriceDelta)
		assert.Equal(t, []catalog.Feature{
			catalog.FeaturePrivateReviews,
			catalog.FeatureAutoResponse,
			catalog.FeatureCompetitorComparison,
		}, cmp.GainedFeatures)
	})

	t.Run("premium recommends enterprise", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		advisor := entitlement.NewAdvisor(f.plans, f.eval)
		businessID := uuid.New()
		f.subscribe(t, businessID, f.premium)

		cmp, err := advisor.UpgradeComparison(ctx, businessID)
		require.NoError(t, err)
		require.NotNil(t, cmp)

		assert.Equal(t, catalog.TierEnterprise, cmp.Recommended.Tier)
		assert.Equal(t, f.enterprise.MonthlyPrice-f.premium.MonthlyPrice, cmp.MonthlyPriceDelta)
		// Only the flags premium lacks, in canonical order.
		assert.Equal(t, []catalog.Feature{
			catalog.FeatureDataAPI,
			catalog.FeatureDNDMode,
			catalog.FeatureBranchComparison,
		}, cmp.GainedFeatures)
	})

	t.Run("enterprise has nowhere to go", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		advisor := entitlement.NewAdvisor(f.plans, f.eval)
		businessID := uuid.New()
		f.subscribe(t, businessID, f.enterprise)

		cmp, err := advisor.UpgradeComparison(ctx, businessID)
		require.NoError(t, err)
		assert.Nil(t, cmp)
	})
}
