package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cambliss-news-backend/internal/domain"
	"cambliss-news-backend/internal/domain/model"
	"cambliss-news-backend/internal/domain/ports/adapter"
	"cambliss-news-backend/internal/domain/ports/repository"
	"cambliss-news-backend/internal/infra/metrics"
)

// Locker guards per-user subscription mutations against concurrent
// checkout attempts. The Redis SetNX locker satisfies it.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

const userLockTTL = 10 * time.Second

func userLockKey(userID string) string { return "lock:subscription:" + userID }

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

// CheckoutUseCase drives the purchase flow: order creation against the
// gateway, then callback verification and subscription activation.
type CheckoutUseCase interface {
	// CreateOrder creates a payment intent for a plan. amount and currency
	// are the client-asserted values and must match the catalog. Each call
	// creates a fresh gateway order; retries are client-deduplicated.
	CreateOrder(ctx context.Context, userID, planID string, amount int64, currency string) (*model.Order, error)

	// VerifyAndActivate authenticates a checkout callback, confirms the
	// payment server-side and activates the subscription. Activation and
	// the bonus-points credit commit atomically or not at all.
	VerifyAndActivate(ctx context.Context, userID, planID string, cb model.PaymentCallback) (*model.Subscription, *model.VerifiedPayment, error)
}

type checkoutUC struct {
	catalog  *model.Catalog
	gateway  adapter.PaymentGateway
	orders   repository.OrderStore
	subs     repository.SubscriptionRepository
	users    repository.UserRepository
	tm       repository.TransactionManager
	locker   Locker
	orderTTL time.Duration
	log      *zerolog.Logger
}

// NewCheckoutUseCase constructs the checkout use case. tm may be nil in
// tests; repositories then run on their non-transactional path.
func NewCheckoutUseCase(
	catalog *model.Catalog,
	gateway adapter.PaymentGateway,
	orders repository.OrderStore,
	subs repository.SubscriptionRepository,
	users repository.UserRepository,
	tm repository.TransactionManager,
	locker Locker,
	orderTTL time.Duration,
	logger *zerolog.Logger,
) *checkoutUC {
	l := logger.With().Str("component", "CheckoutUC").Logger()
	if orderTTL <= 0 {
		orderTTL = time.Hour
	}
	return &checkoutUC{
		catalog:  catalog,
		gateway:  gateway,
		orders:   orders,
		subs:     subs,
		users:    users,
		tm:       tm,
		locker:   locker,
		orderTTL: orderTTL,
		log:      &l,
	}
}

func (uc *checkoutUC) CreateOrder(ctx context.Context, userID, planID string, amount int64, currency string) (*model.Order, error) {
	if userID == "" || planID == "" || amount <= 0 || currency == "" {
		return nil, domain.ErrInvalidArgument
	}
	plan, err := uc.catalog.FindByID(planID)
	if err != nil {
		return nil, domain.ErrInvalidArgument
	}
	// The catalog is the source of truth for prices; a client asserting a
	// different amount gets rejected, not billed.
	if plan.Price <= 0 || amount != plan.Price || currency != plan.Currency {
		return nil, domain.ErrInvalidArgument
	}

	receipt := fmt.Sprintf("receipt_%d", time.Now().UnixMilli())
	notes := map[string]string{
		"plan_id":    plan.ID,
		"user_id":    userID,
		"order_date": time.Now().UTC().Format(time.RFC3339),
	}

	order, err := uc.gateway.CreateOrder(ctx, plan.AmountMinor(), plan.Currency, receipt, notes)
	if err != nil {
		metrics.IncPayment("failed")
		return nil, err
	}
	order.UserID = userID
	order.PlanID = plan.ID

	if err := uc.orders.Put(ctx, order, uc.orderTTL); err != nil {
		return nil, err
	}

	metrics.IncPayment("initiated")
	uc.log.Info().
		Str("order_id", order.ID).
		Str("plan_id", plan.ID).
		Int64("amount", order.Amount).
		Msg("order created")
	return order, nil
}

func (uc *checkoutUC) VerifyAndActivate(ctx context.Context, userID, planID string, cb model.PaymentCallback) (*model.Subscription, *model.VerifiedPayment, error) {
	if userID == "" || planID == "" || !cb.Complete() {
		return nil, nil, domain.ErrInvalidArgument
	}

	// Authenticity first. A mismatch is a forgery attempt, not a user
	// error; it gets its own log signal and metric.
	if err := uc.gateway.VerifySignature(cb.OrderID, cb.PaymentID, cb.Signature); err != nil {
		metrics.IncSignatureFailure()
		metrics.IncPayment("failed")
		uc.log.Warn().
			Str("order_id", cb.OrderID).
			Str("payment_id", cb.PaymentID).
			Msg("signature mismatch on verification callback")
		return nil, nil, err
	}

	// Consume the outstanding-order token. Unknown or already-consumed
	// orders are rejected, so a callback can only activate once.
	order, err := uc.orders.Consume(ctx, cb.OrderID)
	if err != nil {
		return nil, nil, err
	}
	if order.UserID != userID || order.PlanID != planID {
		return nil, nil, domain.ErrOrderNotOutstanding
	}

	plan, err := uc.catalog.FindByID(planID)
	if err != nil {
		return nil, nil, domain.ErrInvalidArgument
	}

	vp, err := uc.gateway.FetchPayment(ctx, cb.PaymentID)
	if err != nil {
		// Put the token back so the client can retry the callback after a
		// transient gateway failure.
		if perr := uc.orders.Put(ctx, order, uc.orderTTL); perr != nil {
			uc.log.Error().Err(perr).Str("order_id", order.ID).Msg("failed to restore order token")
		}
		metrics.IncPayment("failed")
		return nil, nil, err
	}
	if vp.OrderID == "" {
		vp.OrderID = cb.OrderID
	}

	if uc.locker != nil {
		token, err := uc.locker.TryLock(ctx, userLockKey(userID), userLockTTL)
		if err != nil {
			return nil, nil, err
		}
		defer func() { _ = uc.locker.Unlock(ctx, userLockKey(userID), token) }()
	}

	sub, err := model.NewSubscription(uuid.NewString(), userID, plan, vp, time.Now())
	if err != nil {
		return nil, nil, err
	}
	points := model.BonusPoints(plan.Tier, plan.Interval)

	err = uc.withTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if err := uc.subs.Save(ctx, tx, sub); err != nil {
			return err
		}
		if points > 0 {
			if _, err := uc.users.AddPoints(ctx, tx, userID, points); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.IncPayment("succeeded")
	metrics.AddPaymentRevenue(vp.Currency, vp.Amount)
	metrics.IncSubscriptionActivated(plan.ID)
	uc.log.Info().
		Str("subscription_id", sub.ID).
		Str("plan_id", plan.ID).
		Str("payment_id", vp.ID).
		Int64("points", points).
		Msg("subscription activated")
	return sub, vp, nil
}

func (uc *checkoutUC) withTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	if uc.tm == nil {
		return fn(ctx, repository.NoTX)
	}
	return uc.tm.WithTx(ctx, fn)
}
