package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgInvoiceStore is the PostgreSQL InvoiceStore.
type pgInvoiceStore struct {
	pool *pgxpool.Pool
}

// NewPgInvoiceStore returns an InvoiceStore backed by the given pool.
func NewPgInvoiceStore(pool *pgxpool.Pool) InvoiceStore {
	if pool == nil {
		panic("billing: pgxpool is required")
	}
	return &pgInvoiceStore{pool: pool}
}

const invoiceColumns = `id, business_id, plan_id, payer_email, annual, platform, currency,
	base_amount, fee_amount, vat_amount, total_amount,
	status, gateway_reference, payment_url, created_at, updated_at`

func (s *pgInvoiceStore) Create(ctx context.Context, inv *Invoice) error {
	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO invoices (id, business_id, plan_id, payer_email, annual, platform, currency,
			base_amount, fee_amount, vat_amount, total_amount,
			status, gateway_reference, payment_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		inv.ID, inv.BusinessID, inv.PlanID, inv.PayerEmail, inv.Annual, inv.Platform, inv.Currency,
		inv.BaseAmount, inv.FeeAmount, inv.VATAmount, inv.TotalAmount,
		inv.Status, inv.GatewayReference, inv.PaymentURL, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (s *pgInvoiceStore) ByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)

	inv, err := scanInvoice(row)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *pgInvoiceStore) ByBusiness(ctx context.Context, businessID uuid.UUID) ([]Invoice, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
		WHERE business_id = $1
		ORDER BY created_at DESC`,
		businessID)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func (s *pgInvoiceStore) SetStatus(ctx context.Context, id uuid.UUID, status InvoiceStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE invoices SET status = $1, updated_at = now() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID, &inv.BusinessID, &inv.PlanID, &inv.PayerEmail, &inv.Annual, &inv.Platform, &inv.Currency,
		&inv.BaseAmount, &inv.FeeAmount, &inv.VATAmount, &inv.TotalAmount,
		&inv.Status, &inv.GatewayReference, &inv.PaymentURL, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	return &inv, nil
}
