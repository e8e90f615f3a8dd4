package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/revuhub/entitlement/pkg/async"
	"github.com/revuhub/entitlement/pkg/email"
	"github.com/revuhub/entitlement/pkg/qrcode"
	"github.com/revuhub/entitlement/svc/catalog"
)

const (
	// defaultPlatform is the processor recorded when the caller does not
	// name one.
	defaultPlatform = "paddle"

	// checkoutMessage is the fixed confirmation returned to the caller,
	// who is expected to redirect the payer to the invoice's payment URL.
	checkoutMessage = "Checkout initiated. Redirect the payer to the invoice payment URL."

	defaultGatewayTimeout      = 30 * time.Second
	defaultNotificationTimeout = time.Minute
)

// Business is the slice of the business profile checkout needs.
type Business struct {
	ID   uuid.UUID
	Name string
}

// BusinessResolver looks businesses up in the surrounding profile
// subsystem. Absence is ErrBusinessNotFound, not a generic failure.
type BusinessResolver interface {
	ByID(ctx context.Context, id uuid.UUID) (*Business, error)
}

// CheckoutParams is a checkout request.
type CheckoutParams struct {
	BusinessID uuid.UUID
	PlanID     uuid.UUID
	PayerEmail string
	Annual     bool
	Platform   string
}

// CheckoutResult confirms a persisted invoice.
type CheckoutResult struct {
	Message   string
	InvoiceID uuid.UUID
}

// CheckoutService coordinates the billing calculator, the payment gateway
// and invoice persistence for one checkout attempt.
type CheckoutService struct {
	businesses BusinessResolver
	plans      catalog.Service
	calc       *Calculator
	gateway    PaymentGateway
	invoices   InvoiceStore
	sender     email.EmailSender
	log        *slog.Logger

	gatewayTimeout time.Duration
}

// CheckoutOption configures the checkout service.
type CheckoutOption func(*CheckoutService)

// WithGatewayTimeout bounds the blocking gateway call. A gateway that
// never answers must not hang the checkout.
func WithGatewayTimeout(d time.Duration) CheckoutOption {
	return func(s *CheckoutService) {
		if d > 0 {
			s.gatewayTimeout = d
		}
	}
}

// WithNotificationSender enables the post-checkout invoice email.
// Without a sender the notification step is skipped entirely.
func WithNotificationSender(sender email.EmailSender) CheckoutOption {
	return func(s *CheckoutService) { s.sender = sender }
}

// WithCheckoutLogger sets the logger.
func WithCheckoutLogger(log *slog.Logger) CheckoutOption {
	return func(s *CheckoutService) { s.log = log }
}

// NewCheckoutService wires a checkout service. All four collaborators are
// required.
func NewCheckoutService(
	businesses BusinessResolver,
	plans catalog.Service,
	calc *Calculator,
	gateway PaymentGateway,
	invoices InvoiceStore,
	opts ...CheckoutOption,
) *CheckoutService {
	if businesses == nil {
		panic("billing: business resolver is required")
	}
	if plans == nil {
		panic("billing: catalog service is required")
	}
	if calc == nil {
		panic("billing: calculator is required")
	}
	if gateway == nil {
		panic("billing: payment gateway is required")
	}
	if invoices == nil {
		panic("billing: invoice store is required")
	}

	s := &CheckoutService{
		businesses:     businesses,
		plans:          plans,
		calc:           calc,
		gateway:        gateway,
		invoices:       invoices,
		log:            slog.Default(),
		gatewayTimeout: defaultGatewayTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout runs one payment initiation end to end. The gateway call is
// the commit point: on gateway failure no invoice is written, and once
// the invoice commits the checkout is successful regardless of what the
// notification side effect does.
func (s *CheckoutService) Checkout(ctx context.Context, params CheckoutParams) (*CheckoutResult, error) {
	business, err := s.businesses.ByID(ctx, params.BusinessID)
	if err != nil {
		return nil, err
	}
	plan, err := s.plans.ByID(ctx, params.PlanID)
	if err != nil {
		return nil, err
	}

	platform := params.Platform
	if platform == "" {
		platform = defaultPlatform
	}

	amounts := s.calc.Compute(plan.PriceFor(params.Annual))

	invoiceID := uuid.New()
	gatewayCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()
	intent, err := s.gateway.InitiatePayment(gatewayCtx, PaymentRequest{
		Email:       params.PayerEmail,
		Amount:      amounts.Total,
		Currency:    plan.Currency,
		Description: fmt.Sprintf("%s subscription for %s", plan.Name, business.Name),
		Reference:   invoiceID.String(),
	})
	if err != nil {
		if errors.Is(err, ErrPaymentInitiation) {
			return nil, err
		}
		// Timeouts and transport failures count as initiation failures:
		// an unanswered gateway call is never a partial success.
		return nil, fmt.Errorf("%w: %s", ErrPaymentInitiation, err.Error())
	}

	inv := &Invoice{
		ID:               invoiceID,
		BusinessID:       params.BusinessID,
		PlanID:           plan.ID,
		PayerEmail:       params.PayerEmail,
		Annual:           params.Annual,
		Platform:         platform,
		Currency:         plan.Currency,
		BaseAmount:       amounts.Base,
		FeeAmount:        amounts.Fee,
		VATAmount:        amounts.VAT,
		TotalAmount:      amounts.Total,
		Status:           InvoiceUnpaid,
		GatewayReference: intent.Reference,
		PaymentURL:       intent.PaymentURL,
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("persist invoice: %w", err)
	}

	s.log.InfoContext(ctx, "checkout completed",
		"business_id", params.BusinessID, "invoice_id", inv.ID, "total", amounts.Total)

	s.notify(ctx, inv, plan)

	return &CheckoutResult{Message: checkoutMessage, InvoiceID: inv.ID}, nil
}

// notify sends the invoice email on a detached goroutine. It is strictly
// best-effort: failures are logged and never reach the checkout caller.
func (s *CheckoutService) notify(ctx context.Context, inv *Invoice, plan *catalog.Plan) {
	if s.sender == nil {
		return
	}

	// Detach from the request so the caller's cancellation cannot kill
	// an already-committed checkout's notification.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultNotificationTimeout)

	future := async.Async(sendCtx, *inv, func(ctx context.Context, inv Invoice) (struct{}, error) {
		return struct{}{}, s.sender.SendEmail(ctx, email.SendEmailParams{
			SendTo:   inv.PayerEmail,
			Subject:  fmt.Sprintf("Your %s invoice", plan.Name),
			BodyHTML: invoiceEmailBody(&inv, plan),
			Tag:      "invoice-created",
		})
	})

	go func() {
		defer cancel()
		if _, err := future.Await(); err != nil {
			s.log.Warn("invoice notification failed",
				"invoice_id", inv.ID, "error", err)
		}
	}()
}

// invoiceEmailBody renders the invoice summary with a QR code for the
// payment URL so the payer can finish on a phone.
func invoiceEmailBody(inv *Invoice, plan *catalog.Plan) string {
	qr, err := qrcode.GenerateBase64Image(inv.PaymentURL, 0)
	qrBlock := ""
	if err == nil {
		qrBlock = fmt.Sprintf(`<p><img src=%q alt="Payment QR code"/></p>`, qr)
	}

	return fmt.Sprintf(`<h2>Invoice for your %s plan</h2>
<p>Base: %d %s<br/>Processing fee: %d %s<br/>VAT: %d %s<br/><strong>Total: %d %s</strong></p>
<p><a href=%q>Complete your payment</a></p>
%s`,
		plan.Name,
		inv.BaseAmount, inv.Currency,
		inv.FeeAmount, inv.Currency,
		inv.VATAmount, inv.Currency,
		inv.TotalAmount, inv.Currency,
		inv.PaymentURL,
		qrBlock,
	)
}

// GetInvoice loads an invoice with its plan summary joined in. A plan
// that has since left the catalog yields a nil summary, not a failure.
func (s *CheckoutService) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*InvoiceView, error) {
	inv, err := s.invoices.ByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	view := &InvoiceView{Invoice: *inv}
	if plan, err := s.plans.ByID(ctx, inv.PlanID); err == nil {
		view.Plan = &InvoicePlanSummary{
			Name:         plan.Name,
			Tier:         plan.Tier,
			MonthlyPrice: plan.MonthlyPrice,
			AnnualPrice:  plan.AnnualPrice,
		}
	} else if !errors.Is(err, catalog.ErrPlanNotFound) {
		return nil, err
	}
	return view, nil
}

// Invoices lists a business's invoices, newest first.
func (s *CheckoutService) Invoices(ctx context.Context, businessID uuid.UUID) ([]Invoice, error) {
	return s.invoices.ByBusiness(ctx, businessID)
}
