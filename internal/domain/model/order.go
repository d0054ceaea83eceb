package model

import "time"

// Order is the ephemeral record of a single checkout attempt. The id is
// issued by the gateway; the record lives in the outstanding-order store
// until a verification callback consumes it or the TTL lapses.
type Order struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PlanID    string    `json:"plan_id"`
	Amount    int64     `json:"amount"` // minor units (paise)
	Currency  string    `json:"currency"`
	Receipt   string    `json:"receipt"`
	CreatedAt time.Time `json:"created_at"`
}

// PaymentCallback is the untrusted client input posted after gateway
// checkout. Nothing here is believed until the signature checks out.
type PaymentCallback struct {
	OrderID   string
	PaymentID string
	Signature string
}

func (c PaymentCallback) Complete() bool {
	return c.OrderID != "" && c.PaymentID != "" && c.Signature != ""
}

// VerifiedPayment is the payment record fetched from the gateway after a
// successful signature check. It is the server-side source of truth for
// amount and status.
type VerifiedPayment struct {
	ID       string
	OrderID  string
	Amount   int64 // minor units (paise)
	Currency string
	Status   string
	Method   string
	Email    string
	Contact  string
}
