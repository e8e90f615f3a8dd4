package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/revuhub/entitlement/pkg/pg"
)

// pgStore is the PostgreSQL Store. A partial unique index on
// (business_id) WHERE status = 'active' backs the one-active-subscription
// invariant, and every UPDATE is guarded by the version column.
type pgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore returns a Store backed by the given pool.
func NewPgStore(pool *pgxpool.Pool) Store {
	if pool == nil {
		panic("subscription: pgxpool is required")
	}
	return &pgStore{pool: pool}
}

const subscriptionColumns = `id, business_id, plan_id, starts_at, ends_at, annual, status,
	replies_used, disputes_used, usage_reset_at, cancelled_at, cancel_reason,
	version, created_at, updated_at`

func (s *pgStore) Create(ctx context.Context, sub *Subscription) error {
	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	sub.Version = 1

	_, err := s.pool.Exec(ctx, `
		INSERT INTO subscriptions (id, business_id, plan_id, starts_at, ends_at, annual, status,
			replies_used, disputes_used, usage_reset_at, cancelled_at, cancel_reason,
			version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		sub.ID, sub.BusinessID, sub.PlanID, sub.StartsAt, sub.EndsAt, sub.Annual, sub.Status,
		sub.RepliesUsed, sub.DisputesUsed, sub.UsageResetAt, sub.CancelledAt, sub.CancelReason,
		sub.Version, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (s *pgStore) Update(ctx context.Context, sub *Subscription) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE subscriptions
		SET plan_id = $1, starts_at = $2, ends_at = $3, annual = $4, status = $5,
			replies_used = $6, disputes_used = $7, usage_reset_at = $8,
			cancelled_at = $9, cancel_reason = $10,
			version = version + 1, updated_at = now()
		WHERE id = $11 AND version = $12`,
		sub.PlanID, sub.StartsAt, sub.EndsAt, sub.Annual, sub.Status,
		sub.RepliesUsed, sub.DisputesUsed, sub.UsageResetAt,
		sub.CancelledAt, sub.CancelReason,
		sub.ID, sub.Version,
	)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the row is gone or someone else won the version race.
		if _, lookupErr := s.ByID(ctx, sub.ID); lookupErr != nil {
			return lookupErr
		}
		return ErrVersionConflict
	}
	sub.Version++
	return nil
}

func (s *pgStore) ByID(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id)
	return scanSubscription(row)
}

func (s *pgStore) ActiveByBusiness(ctx context.Context, businessID uuid.UUID, now time.Time) (*Subscription, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE business_id = $1 AND status = $2 AND ends_at > $3`,
		businessID, StatusActive, now)
	return scanSubscription(row)
}

func (s *pgStore) ByBusiness(ctx context.Context, businessID uuid.UUID) (*Subscription, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE business_id = $1
		ORDER BY created_at DESC
		LIMIT 1`,
		businessID)
	return scanSubscription(row)
}

func (s *pgStore) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE subscriptions
		SET status = $1, version = version + 1, updated_at = now()
		WHERE status = $2 AND ends_at <= $3`,
		StatusExpired, StatusActive, now)
	if err != nil {
		return 0, fmt.Errorf("expire due subscriptions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanSubscription(row pgx.Row) (*Subscription, error) {
	var sub Subscription
	var status string
	err := row.Scan(
		&sub.ID, &sub.BusinessID, &sub.PlanID, &sub.StartsAt, &sub.EndsAt, &sub.Annual, &status,
		&sub.RepliesUsed, &sub.DisputesUsed, &sub.UsageResetAt, &sub.CancelledAt, &sub.CancelReason,
		&sub.Version, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan subscription: %w", err)
	}
	if sub.Status, err = ParseStatus(status); err != nil {
		return nil, err
	}
	return &sub, nil
}
