package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revuhub/entitlement/svc/catalog"
)

func basicPlan() catalog.Plan {
	return catalog.Plan{
		ID:           uuid.New(),
		Name:         "Basic",
		Tier:         catalog.TierBasic,
		MonthlyPrice: 0,
		AnnualPrice:  0,
		Currency:     "USD",
		Limits: map[catalog.Quota]int64{
			catalog.QuotaReplies:  10,
			catalog.QuotaDisputes: 2,
			catalog.QuotaSources:  1,
			catalog.QuotaUsers:    1,
		},
		Active: true,
	}
}

func premiumPlan() catalog.Plan {
	return catalog.Plan{
		ID:           uuid.New(),
		Name:         "Premium",
		Tier:         catalog.TierPremium,
		MonthlyPrice: 150000,
		AnnualPrice:  1500000,
		Currency:     "USD",
		Limits: map[catalog.Quota]int64{
			catalog.QuotaReplies:  200,
			catalog.QuotaDisputes: 20,
			catalog.QuotaSources:  5,
			catalog.QuotaUsers:    5,
		},
		Features: []catalog.Feature{
			catalog.FeaturePrivateReviews,
			catalog.FeatureAutoResponse,
		},
		Active: true,
	}
}

func enterprisePlan() catalog.Plan {
	return catalog.Plan{
		ID:           uuid.New(),
		Name:         "Enterprise",
		Tier:         catalog.TierEnterprise,
		MonthlyPrice: 400000,
		AnnualPrice:  4000000,
		Currency:     "USD",
		Limits: map[catalog.Quota]int64{
			catalog.QuotaReplies:  catalog.Unlimited,
			catalog.QuotaDisputes: catalog.Unlimited,
			catalog.QuotaSources:  catalog.Unlimited,
			catalog.QuotaUsers:    catalog.Unlimited,
		},
		Features: catalog.AllFeatures,
		Active:   true,
	}
}

func TestNewService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("loads and orders active plans by tier", func(t *testing.T) {
		t.Parallel()
		svc, err := catalog.NewService(ctx,
			catalog.NewInMemSource(enterprisePlan(), basicPlan(), premiumPlan()))
		require.NoError(t, err)

		plans, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, plans, 3)
		assert.Equal(t, catalog.TierBasic, plans[0].Tier)
		assert.Equal(t, catalog.TierPremium, plans[1].Tier)
		assert.Equal(t, catalog.TierEnterprise, plans[2].Tier)
	})

	t.Run("rejects two active plans for one tier", func(t *testing.T) {
		t.Parallel()
		dup := basicPlan()
		_, err := catalog.NewService(ctx, catalog.NewInMemSource(basicPlan(), dup))
		assert.ErrorIs(t, err, catalog.ErrDuplicateActiveTier)
	})

	t.Run("allows an inactive plan alongside the active one", func(t *testing.T) {
		t.Parallel()
		retired := basicPlan()
		retired.Active = false
		svc, err := catalog.NewService(ctx, catalog.NewInMemSource(basicPlan(), retired))
		require.NoError(t, err)

		plans, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, plans, 1)

		// Inactive plans stay resolvable by ID for invoice history.
		got, err := svc.ByID(ctx, retired.ID)
		require.NoError(t, err)
		assert.False(t, got.Active)
	})

	t.Run("fails when the default tier has no active plan", func(t *testing.T) {
		t.Parallel()
		_, err := catalog.NewService(ctx, catalog.NewInMemSource(premiumPlan()))
		assert.ErrorIs(t, err, catalog.ErrDefaultPlanMissing)
	})

	t.Run("rejects negative prices", func(t *testing.T) {
		t.Parallel()
		bad := basicPlan()
		bad.MonthlyPrice = -1
		_, err := catalog.NewService(ctx, catalog.NewInMemSource(bad))
		assert.ErrorIs(t, err, catalog.ErrInvalidPlanConfiguration)
	})

	t.Run("default resolves the basic plan", func(t *testing.T) {
		t.Parallel()
		svc, err := catalog.NewService(ctx, catalog.NewInMemSource(basicPlan(), premiumPlan()))
		require.NoError(t, err)

		def, err := svc.Default(ctx)
		require.NoError(t, err)
		assert.Equal(t, catalog.TierBasic, def.Tier)
	})

	t.Run("unknown plan id", func(t *testing.T) {
		t.Parallel()
		svc, err := catalog.NewService(ctx, catalog.NewInMemSource(basicPlan()))
		require.NoError(t, err)

		_, err = svc.ByID(ctx, uuid.New())
		assert.ErrorIs(t, err, catalog.ErrPlanNotFound)
	})
}

func TestTier(t *testing.T) {
	t.Parallel()

	t.Run("upgrade chain", func(t *testing.T) {
		t.Parallel()
		next, ok := catalog.TierBasic.Next()
		require.True(t, ok)
		assert.Equal(t, catalog.TierPremium, next)

		next, ok = catalog.TierPremium.Next()
		require.True(t, ok)
		assert.Equal(t, catalog.TierEnterprise, next)

		_, ok = catalog.TierEnterprise.Next()
		assert.False(t, ok)
	})

	t.Run("parse round trip", func(t *testing.T) {
		t.Parallel()
		for _, tier := range []catalog.Tier{catalog.TierBasic, catalog.TierPremium, catalog.TierEnterprise} {
			parsed, err := catalog.ParseTier(tier.String())
			require.NoError(t, err)
			assert.Equal(t, tier, parsed)
		}
	})

	t.Run("unknown tier rejected", func(t *testing.T) {
		t.Parallel()
		_, err := catalog.ParseTier("platinum")
		assert.ErrorIs(t, err, catalog.ErrUnknownTier)
	})
}

func TestParseFeature(t *testing.T) {
	t.Parallel()

	for _, f := range catalog.AllFeatures {
		parsed, err := catalog.ParseFeature(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	_, err := catalog.ParseFeature("teleportation")
	assert.ErrorIs(t, err, catalog.ErrUnknownFeature)
}

func TestPlanHelpers(t *testing.T) {
	t.Parallel()

	p := premiumPlan()
	assert.Equal(t, p.AnnualPrice, p.PriceFor(true))
	assert.Equal(t, p.MonthlyPrice, p.PriceFor(false))
	assert.True(t, p.HasFeature(catalog.FeaturePrivateReviews))
	assert.False(t, p.HasFeature(catalog.FeatureDNDMode))
	assert.EqualValues(t, 200, p.LimitFor(catalog.QuotaReplies))

	e := enterprisePlan()
	assert.True(t, e.IsUnlimited(catalog.QuotaReplies))

	// A quota the plan does not carry means the dimension is unavailable.
	bare := catalog.Plan{}
	assert.EqualValues(t, 0, bare.LimitFor(catalog.QuotaReplies))
}
