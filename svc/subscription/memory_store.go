package subscription

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryStore is an in-memory Store for tests and local development.
type memoryStore struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]Subscription
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{subs: make(map[uuid.UUID]Subscription)}
}

func (s *memoryStore) Create(ctx context.Context, sub *Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.subs {
		if existing.BusinessID == sub.BusinessID && existing.Status == StatusActive {
			return ErrAlreadyExists
		}
	}

	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	sub.Version = 1
	s.subs[sub.ID] = *sub
	return nil
}

func (s *memoryStore) Update(ctx context.Context, sub *Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.subs[sub.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != sub.Version {
		return ErrVersionConflict
	}

	sub.Version++
	sub.UpdatedAt = time.Now()
	s.subs[sub.ID] = *sub
	return nil
}

func (s *memoryStore) ByID(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &sub, nil
}

func (s *memoryStore) ActiveByBusiness(ctx context.Context, businessID uuid.UUID, now time.Time) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.subs {
		if sub.BusinessID == businessID && sub.IsActiveAt(now) {
			found := sub
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryStore) ByBusiness(ctx context.Context, businessID uuid.UUID) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *Subscription
	for _, sub := range s.subs {
		if sub.BusinessID != businessID {
			continue
		}
		if latest == nil || sub.CreatedAt.After(latest.CreatedAt) {
			found := sub
			latest = &found
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (s *memoryStore) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired int64
	for id, sub := range s.subs {
		if sub.Status == StatusActive && !now.Before(sub.EndsAt) {
			sub.Status = StatusExpired
			sub.Version++
			sub.UpdatedAt = now
			s.subs[id] = sub
			expired++
		}
	}
	return expired, nil
}
