package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/revuhub/entitlement/svc/catalog"
)

// InvoiceStatus tracks payment collection on an invoice.
type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "unpaid"
	InvoicePaid   InvoiceStatus = "paid"
	InvoiceVoid   InvoiceStatus = "void"
)

// Invoice is the persisted record of a checkout attempt that reached the
// gateway successfully. Amounts are denormalized onto the row so the
// invoice stays readable after plan prices change.
type Invoice struct {
	ID         uuid.UUID
	BusinessID uuid.UUID
	PlanID     uuid.UUID

	PayerEmail string
	Annual     bool
	Platform   string
	Currency   string

	BaseAmount  int64
	FeeAmount   int64
	VATAmount   int64
	TotalAmount int64

	Status           InvoiceStatus
	GatewayReference string
	PaymentURL       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InvoicePlanSummary is the plan slice joined onto an invoice view.
type InvoicePlanSummary struct {
	Name         string
	Tier         catalog.Tier
	MonthlyPrice int64
	AnnualPrice  int64
}

// InvoiceView is an invoice with its plan summary joined in. Plan is nil
// when the referenced plan has since been removed from the catalog; the
// invoice itself remains valid history.
type InvoiceView struct {
	Invoice
	Plan *InvoicePlanSummary
}
