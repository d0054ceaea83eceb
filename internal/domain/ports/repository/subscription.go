package repository

import (
	"context"
	"time"

	"cambliss-news-backend/internal/domain/model"
)

// SubscriptionRepository is the port for the per-user subscription record.
type SubscriptionRepository interface {
	// Save upserts keyed by user id: a newer record supersedes any prior
	// one for the same user (last write wins).
	Save(ctx context.Context, tx Tx, sub *model.Subscription) error

	// FindByUser returns the authoritative record for a user, or
	// domain.ErrNotFound.
	FindByUser(ctx context.Context, tx Tx, userID string) (*model.Subscription, error)

	// UpdateStatus transitions a record's status in place.
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.SubscriptionStatus) error

	// ExpireDue marks active records with end_date strictly before now as
	// expired and returns how many were transitioned.
	ExpireDue(ctx context.Context, tx Tx, now time.Time) (int, error)

	// CountByStatus returns record counts per status (metrics/stats).
	CountByStatus(ctx context.Context, tx Tx) (map[model.SubscriptionStatus]int, error)
}
