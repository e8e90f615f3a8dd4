package catalog

import (
	"context"
	"slices"
	"sync"
)

type inMemSource struct {
	mu    sync.RWMutex
	plans []Plan
}

// NewInMemSource returns an in-memory Source with a deep copy of the given
// plans. Panics if no plans are provided: a catalog without plans cannot
// resolve the default tier and the service would refuse to start anyway.
func NewInMemSource(plans ...Plan) Source {
	if len(plans) < 1 {
		panic("catalog: at least one plan is required")
	}
	plansCopy := make([]Plan, 0, len(plans))
	for _, p := range plans {
		plansCopy = append(plansCopy, p.clone())
	}
	return &inMemSource{plans: plansCopy}
}

// Load returns a copy of all plans from memory.
func (s *inMemSource) Load(ctx context.Context) ([]Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Plan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, p.clone())
	}
	return slices.Clip(out), nil
}
