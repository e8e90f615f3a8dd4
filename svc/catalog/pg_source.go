package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// pgSource loads the catalog from the plans table.
type pgSource struct {
	pool *pgxpool.Pool
}

// NewPgSource returns a Source backed by PostgreSQL.
func NewPgSource(pool *pgxpool.Pool) Source {
	if pool == nil {
		panic("catalog: pgxpool is required")
	}
	return &pgSource{pool: pool}
}

func (s *pgSource) Load(ctx context.Context) ([]Plan, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, tier,
		       monthly_price, annual_price, currency,
		       reply_limit, dispute_limit, source_limit, user_limit,
		       features, active
		FROM plans
		ORDER BY tier, created_at`)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		var (
			p           Plan
			tier        string
			replyLimit  int64
			dispLimit   int64
			srcLimit    int64
			userLimit   int64
			rawFeatures []string
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &tier,
			&p.MonthlyPrice, &p.AnnualPrice, &p.Currency,
			&replyLimit, &dispLimit, &srcLimit, &userLimit,
			&rawFeatures, &p.Active,
		); err != nil {
			return nil, errors.Join(ErrFailedToLoadPlans, err)
		}

		p.Tier, err = ParseTier(tier)
		if err != nil {
			return nil, errors.Join(ErrFailedToLoadPlans, err)
		}

		p.Limits = map[Quota]int64{
			QuotaReplies:  replyLimit,
			QuotaDisputes: dispLimit,
			QuotaSources:  srcLimit,
			QuotaUsers:    userLimit,
		}

		p.Features = make([]Feature, 0, len(rawFeatures))
		for _, name := range rawFeatures {
			f, err := ParseFeature(name)
			if err != nil {
				return nil, errors.Join(ErrFailedToLoadPlans, err)
			}
			p.Features = append(p.Features, f)
		}

		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	return plans, nil
}
