package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgBusinessResolver resolves businesses from the platform's profile
// table. Only the columns checkout needs are read.
type pgBusinessResolver struct {
	pool *pgxpool.Pool
}

// NewPgBusinessResolver returns a BusinessResolver backed by the given
// pool.
func NewPgBusinessResolver(pool *pgxpool.Pool) BusinessResolver {
	if pool == nil {
		panic("billing: pgxpool is required")
	}
	return &pgBusinessResolver{pool: pool}
}

func (r *pgBusinessResolver) ByID(ctx context.Context, id uuid.UUID) (*Business, error) {
	var b Business
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM businesses WHERE id = $1`, id).
		Scan(&b.ID, &b.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("resolve business: %w", err)
	}
	return &b, nil
}
