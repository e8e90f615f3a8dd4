package billing

import "errors"

var (
	// ErrInvoiceNotFound is returned when no invoice matches the lookup.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrBusinessNotFound is returned when the checkout target business
	// does not exist.
	ErrBusinessNotFound = errors.New("business not found")

	// ErrPaymentInitiation wraps the gateway's own failure report. It is
	// surfaced distinctly so callers can show the gateway message, and it
	// is never retried automatically: retrying a payment initiation can
	// double-charge.
	ErrPaymentInitiation = errors.New("payment initiation failed")
)
