package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

// PaddleConfig configures the Paddle payment gateway.
type PaddleConfig struct {
	APIKey      string `env:"PADDLE_API_KEY,required"`
	Environment string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
	// PriceID is the Paddle catalog price used for subscription charges.
	// The effective amount travels in the transaction's custom data and is
	// reconciled from the gateway webhook.
	PriceID string `env:"PADDLE_PRICE_ID,required"`
}

// PaddleGateway is the Paddle-backed PaymentGateway.
type PaddleGateway struct {
	client *paddle.SDK
	cfg    PaddleConfig
}

// NewPaddleGateway creates a Paddle gateway for the configured environment.
func NewPaddleGateway(cfg PaddleConfig) (*PaddleGateway, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("paddle API key is required")
	}
	if cfg.PriceID == "" {
		return nil, errors.New("paddle price ID is required")
	}

	var client *paddle.SDK
	var err error
	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(cfg.APIKey)
	case "production", "":
		client, err = paddle.New(cfg.APIKey)
	default:
		return nil, fmt.Errorf("invalid paddle environment: %s", cfg.Environment)
	}
	if err != nil {
		return nil, fmt.Errorf("create paddle client: %w", err)
	}

	return &PaddleGateway{client: client, cfg: cfg}, nil
}

func (g *PaddleGateway) InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentIntent, error) {
	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  g.cfg.PriceID,
		Quantity: 1,
	})

	transaction, err := g.client.TransactionsClient.CreateTransaction(ctx, &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"email":       req.Email,
			"amount":      strconv.FormatInt(req.Amount, 10),
			"currency":    req.Currency,
			"description": req.Description,
			"invoice_id":  req.Reference,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPaymentInitiation, err.Error())
	}

	if transaction.Checkout == nil || transaction.Checkout.URL == nil || *transaction.Checkout.URL == "" {
		return nil, fmt.Errorf("%w: no checkout URL returned", ErrPaymentInitiation)
	}

	return &PaymentIntent{
		Reference:  transaction.ID,
		PaymentURL: *transaction.Checkout.URL,
	}, nil
}
