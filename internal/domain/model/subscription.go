package model

import (
	"time"

	"cambliss-news-backend/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// Subscription is the durable per-user record. At most one record is
// authoritative per user; re-subscription supersedes the previous one.
type Subscription struct {
	ID               string
	UserID           string
	PlanID           string
	Tier             Tier
	StartDate        time.Time
	EndDate          time.Time
	Status           SubscriptionStatus
	PaymentMethod    string
	GatewayOrderID   string
	GatewayPaymentID string
	CreatedAt        time.Time
}

// NewSubscription builds an active subscription starting at now. The end
// date is one month or one year out depending on the plan interval.
func NewSubscription(id, userID string, plan *Plan, payment *VerifiedPayment, now time.Time) (*Subscription, error) {
	if id == "" || userID == "" || plan.IsZero() || payment == nil {
		return nil, domain.ErrInvalidArgument
	}
	return &Subscription{
		ID:               id,
		UserID:           userID,
		PlanID:           plan.ID,
		Tier:             plan.Tier,
		StartDate:        now,
		EndDate:          plan.PeriodEnd(now),
		Status:           SubscriptionStatusActive,
		PaymentMethod:    payment.Method,
		GatewayOrderID:   payment.OrderID,
		GatewayPaymentID: payment.ID,
		CreatedAt:        now,
	}, nil
}

// ExpiredAt reports whether the record should lazily transition to
// expired. Strictly after: a subscription ending exactly now is still
// active.
func (s *Subscription) ExpiredAt(now time.Time) bool {
	return s != nil && s.Status == SubscriptionStatusActive && now.After(s.EndDate)
}
