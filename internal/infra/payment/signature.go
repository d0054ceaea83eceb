package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"cambliss-news-backend/internal/domain"
)

// Razorpay signs checkout callbacks with
// HMAC-SHA256(order_id + "|" + payment_id) under the merchant secret,
// hex encoded. The comparison is constant-time; the callback is attacker
// input.

// Signature computes the expected callback signature.
func Signature(secret, orderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks a caller-supplied signature against the expected
// one. Returns domain.ErrInvalidSignature on mismatch.
func VerifySignature(secret, orderID, paymentID, signature string) error {
	expected := Signature(secret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domain.ErrInvalidSignature
	}
	return nil
}
