package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"cambliss-news-backend/internal/domain"
	"cambliss-news-backend/internal/domain/model"
	"cambliss-news-backend/internal/domain/ports/repository"
	"cambliss-news-backend/internal/infra/metrics"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// SubscriptionUseCase reads and mutates the per-user subscription record.
type SubscriptionUseCase interface {
	// Current returns the user's record after applying lazy expiry, or
	// domain.ErrNotFound when the user never subscribed.
	Current(ctx context.Context, userID string) (*model.Subscription, error)

	// Cancel flips an active record to cancelled. The end date is left
	// untouched; the entitlement gate only honors active status, so access
	// is lost immediately.
	Cancel(ctx context.Context, userID string) (*model.Subscription, error)

	// FinishExpired sweeps active records past their end date. Lazy expiry
	// on read stays the primary mechanism; this keeps the store honest for
	// rows nobody reads.
	FinishExpired(ctx context.Context) (int, error)
}

type subscriptionUC struct {
	subs   repository.SubscriptionRepository
	locker Locker
	log    *zerolog.Logger
}

// NewSubscriptionUseCase constructs the use case. locker may be nil in
// tests.
func NewSubscriptionUseCase(subs repository.SubscriptionRepository, locker Locker, logger *zerolog.Logger) *subscriptionUC {
	l := logger.With().Str("component", "SubscriptionUC").Logger()
	return &subscriptionUC{subs: subs, locker: locker, log: &l}
}

func (uc *subscriptionUC) Current(ctx context.Context, userID string) (*model.Subscription, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	sub, err := uc.subs.FindByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	return uc.applyLazyExpiry(ctx, sub), nil
}

func (uc *subscriptionUC) Cancel(ctx context.Context, userID string) (*model.Subscription, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}

	if uc.locker != nil {
		token, err := uc.locker.TryLock(ctx, userLockKey(userID), userLockTTL)
		if err != nil {
			return nil, err
		}
		defer func() { _ = uc.locker.Unlock(ctx, userLockKey(userID), token) }()
	}

	sub, err := uc.subs.FindByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	sub = uc.applyLazyExpiry(ctx, sub)
	if sub.Status != model.SubscriptionStatusActive {
		return nil, domain.ErrNoActiveSubscription
	}

	if err := uc.subs.UpdateStatus(ctx, repository.NoTX, sub.ID, model.SubscriptionStatusCancelled); err != nil {
		return nil, err
	}
	sub.Status = model.SubscriptionStatusCancelled
	metrics.IncSubscriptionCancelled()
	uc.log.Info().Str("subscription_id", sub.ID).Msg("subscription cancelled")
	return sub, nil
}

func (uc *subscriptionUC) FinishExpired(ctx context.Context) (int, error) {
	return uc.subs.ExpireDue(ctx, repository.NoTX, time.Now())
}

// applyLazyExpiry transitions an overdue active record to expired at read
// time and persists the change best-effort.
func (uc *subscriptionUC) applyLazyExpiry(ctx context.Context, sub *model.Subscription) *model.Subscription {
	if !sub.ExpiredAt(time.Now()) {
		return sub
	}
	if err := uc.subs.UpdateStatus(ctx, repository.NoTX, sub.ID, model.SubscriptionStatusExpired); err != nil && !errors.Is(err, domain.ErrNotFound) {
		uc.log.Error().Err(err).Str("subscription_id", sub.ID).Msg("failed to persist expiry")
	} else {
		metrics.IncSubscriptionsExpired(1)
	}
	sub.Status = model.SubscriptionStatusExpired
	return sub
}
