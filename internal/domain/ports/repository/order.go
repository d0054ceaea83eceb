package repository

import (
	"context"
	"time"

	"cambliss-news-backend/internal/domain/model"
)

// OrderStore tracks outstanding checkout attempts. Each created order is
// recorded with a TTL; a verification callback must consume its order
// exactly once. Callbacks naming an unknown or already-consumed order are
// rejected, which is the idempotency guard against replayed or duplicate
// verifications.
type OrderStore interface {
	Put(ctx context.Context, order *model.Order, ttl time.Duration) error

	// Consume atomically fetches and removes the order. Returns
	// domain.ErrOrderNotOutstanding when absent.
	Consume(ctx context.Context, orderID string) (*model.Order, error)
}
