package adapter

import (
	"context"

	"cambliss-news-backend/internal/domain/model"
)

// PaymentGateway is the hex port for the payment provider.
type PaymentGateway interface {
	Name() string

	// KeyID is the public key identifier the checkout UI needs.
	KeyID() string

	// Configured reports whether merchant credentials are present. Used by
	// the health endpoint; never exposes the credentials themselves.
	Configured() bool

	// CreateOrder creates a payment intent on the provider. Amount is in
	// minor units. Each call creates fresh remote state; idempotency is the
	// caller's problem.
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*model.Order, error)

	// VerifySignature checks the authenticity of a checkout callback
	// against the merchant secret. Returns domain.ErrInvalidSignature on
	// mismatch.
	VerifySignature(orderID, paymentID, signature string) error

	// FetchPayment loads the payment record from the provider by id. This
	// is the server-side source of truth; client-asserted status is never
	// trusted alone.
	FetchPayment(ctx context.Context, paymentID string) (*model.VerifiedPayment, error)
}
