package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Service is the read side of the plan catalog. Implementations load the
// catalog once at construction; the catalog changes rarely enough that a
// process restart (or the cached source's TTL) is the refresh mechanism.
type Service interface {
	// List returns all active plans ordered by tier rank.
	List(ctx context.Context) ([]Plan, error)

	// ByID returns a plan by identity, active or not.
	// Returns ErrPlanNotFound for unknown IDs.
	ByID(ctx context.Context, id uuid.UUID) (*Plan, error)

	// ActiveByTier returns the single active plan for the tier.
	// Returns ErrPlanNotFound when the tier has no active plan.
	ActiveByTier(ctx context.Context, tier Tier) (*Plan, error)

	// Default returns the active plan of the configured default tier, the
	// implicit free tier every business is entitled to. Returns
	// ErrDefaultPlanMissing when absent.
	Default(ctx context.Context) (*Plan, error)

	// DefaultTier returns the configured fallback tier.
	DefaultTier() Tier
}

// Source defines how plans are loaded into the catalog.
type Source interface {
	Load(ctx context.Context) ([]Plan, error)
}

// ServiceOption configures catalog construction.
type ServiceOption func(*service)

// WithDefaultTier overrides the fallback tier (TierBasic unless set).
// Panics on an invalid tier to fail fast during initialization.
func WithDefaultTier(t Tier) ServiceOption {
	return func(s *service) {
		if !t.Valid() {
			panic(fmt.Sprintf("catalog: invalid default tier %d", int(t)))
		}
		s.defaultTier = t
	}
}

type service struct {
	byID         map[uuid.UUID]Plan
	activeByTier map[Tier]Plan
	ordered      []Plan // active plans in tier order
	defaultTier  Tier
}

// NewService loads the catalog from src and validates it.
// Validation failures are configuration errors: the caller is expected to
// abort startup rather than serve requests with a broken catalog.
func NewService(ctx context.Context, src Source, opts ...ServiceOption) (Service, error) {
	if src == nil {
		panic("catalog: Source is required")
	}

	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	if err := ValidatePlans(plans); err != nil {
		return nil, err
	}

	s := &service{
		byID:         make(map[uuid.UUID]Plan, len(plans)),
		activeByTier: make(map[Tier]Plan),
		defaultTier:  TierBasic,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, p := range plans {
		s.byID[p.ID] = p.clone()
		if p.Active {
			s.activeByTier[p.Tier] = p.clone()
		}
	}
	for t := TierBasic; t.Valid(); t++ {
		if p, ok := s.activeByTier[t]; ok {
			s.ordered = append(s.ordered, p)
		}
	}

	if _, ok := s.activeByTier[s.defaultTier]; !ok {
		return nil, ErrDefaultPlanMissing
	}

	return s, nil
}

func (s *service) List(ctx context.Context) ([]Plan, error) {
	out := make([]Plan, 0, len(s.ordered))
	for _, p := range s.ordered {
		out = append(out, p.clone())
	}
	return out, nil
}

func (s *service) ByID(ctx context.Context, id uuid.UUID) (*Plan, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	cp := p.clone()
	return &cp, nil
}

func (s *service) ActiveByTier(ctx context.Context, tier Tier) (*Plan, error) {
	p, ok := s.activeByTier[tier]
	if !ok {
		return nil, ErrPlanNotFound
	}
	cp := p.clone()
	return &cp, nil
}

func (s *service) Default(ctx context.Context) (*Plan, error) {
	p, ok := s.activeByTier[s.defaultTier]
	if !ok {
		return nil, ErrDefaultPlanMissing
	}
	cp := p.clone()
	return &cp, nil
}

func (s *service) DefaultTier() Tier {
	return s.defaultTier
}

// ValidatePlans checks catalog consistency:
// at most one active plan per tier, known tiers, non-negative prices and
// limits not below the unlimited sentinel.
func ValidatePlans(plans []Plan) error {
	activeTiers := make(map[Tier]uuid.UUID)

	for _, p := range plans {
		if p.Name == "" {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has no name", p.ID))
		}
		if !p.Tier.Valid() {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has unknown tier %d", p.ID, int(p.Tier)))
		}
		if p.MonthlyPrice < 0 || p.AnnualPrice < 0 {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has a negative price", p.ID))
		}
		for q, limit := range p.Limits {
			if limit < Unlimited {
				return errors.Join(ErrInvalidPlanConfiguration,
					fmt.Errorf("plan %s has invalid limit %d for %s", p.ID, limit, q))
			}
		}

		if p.Active {
			if other, exists := activeTiers[p.Tier]; exists {
				return errors.Join(ErrDuplicateActiveTier,
					fmt.Errorf("tier %s: plans %s and %s are both active", p.Tier, other, p.ID))
			}
			activeTiers[p.Tier] = p.ID
		}
	}

	return nil
}
