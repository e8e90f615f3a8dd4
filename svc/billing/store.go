package billing

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceStore persists invoices. The table is append-mostly: rows are
// written once at checkout and later touched only to record payment state.
type InvoiceStore interface {
	// Create inserts a new invoice.
	Create(ctx context.Context, inv *Invoice) error

	// ByID returns the invoice with the given id or ErrInvoiceNotFound.
	ByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// ByBusiness returns the business's invoices, newest first.
	ByBusiness(ctx context.Context, businessID uuid.UUID) ([]Invoice, error)

	// SetStatus records a payment state change reported by the gateway.
	SetStatus(ctx context.Context, id uuid.UUID, status InvoiceStatus) error
}
