package billing

import "context"

// PaymentRequest is what the gateway needs to start collecting a payment.
type PaymentRequest struct {
	Email       string
	Amount      int64
	Currency    string
	Description string
	// Reference is our invoice identifier, echoed back in gateway
	// webhooks for reconciliation.
	Reference string
}

// PaymentIntent is the gateway's answer to a successful initiation.
type PaymentIntent struct {
	// Reference is the gateway's transaction identifier.
	Reference string
	// PaymentURL is where the payer completes the payment.
	PaymentURL string
}

// PaymentGateway starts payments with an external processor. It must be
// treated as untrusted: slow, failing, or both. Implementations respect
// ctx so a hung gateway cannot hang a checkout.
type PaymentGateway interface {
	InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentIntent, error)
}
