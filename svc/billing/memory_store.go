package billing

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryInvoiceStore is an in-memory InvoiceStore for tests and local
// development.
type memoryInvoiceStore struct {
	mu       sync.RWMutex
	invoices map[uuid.UUID]Invoice
}

// NewMemoryInvoiceStore returns an empty in-memory InvoiceStore.
func NewMemoryInvoiceStore() InvoiceStore {
	return &memoryInvoiceStore{invoices: make(map[uuid.UUID]Invoice)}
}

func (s *memoryInvoiceStore) Create(ctx context.Context, inv *Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	s.invoices[inv.ID] = *inv
	return nil
}

func (s *memoryInvoiceStore) ByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invoices[id]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	return &inv, nil
}

func (s *memoryInvoiceStore) ByBusiness(ctx context.Context, businessID uuid.UUID) ([]Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Invoice
	for _, inv := range s.invoices {
		if inv.BusinessID == businessID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memoryInvoiceStore) SetStatus(ctx context.Context, id uuid.UUID, status InvoiceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return ErrInvoiceNotFound
	}
	inv.Status = status
	inv.UpdatedAt = time.Now()
	s.invoices[id] = inv
	return nil
}
