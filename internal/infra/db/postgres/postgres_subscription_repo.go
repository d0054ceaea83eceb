package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"cambliss-news-backend/internal/domain"
	"cambliss-news-backend/internal/domain/model"
	"cambliss-news-backend/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

// Schema:
//
//	CREATE TABLE subscriptions (
//	  id                 UUID PRIMARY KEY,
//	  user_id            TEXT NOT NULL UNIQUE,
//	  plan_id            TEXT NOT NULL,
//	  tier               TEXT NOT NULL,
//	  start_date         TIMESTAMPTZ NOT NULL,
//	  end_date           TIMESTAMPTZ NOT NULL,
//	  status             TEXT NOT NULL,
//	  payment_method     TEXT NOT NULL DEFAULT '',
//	  gateway_order_id   TEXT NOT NULL DEFAULT '',
//	  gateway_payment_id TEXT NOT NULL DEFAULT '',
//	  created_at         TIMESTAMPTZ NOT NULL
//	);
//
// The UNIQUE(user_id) constraint is what makes activation supersede: one
// authoritative row per user, last write wins.
type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (
  id, user_id, plan_id, tier, start_date, end_date, status, payment_method, gateway_order_id, gateway_payment_id, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (user_id) DO UPDATE SET
  id=$1, plan_id=$3, tier=$4, start_date=$5, end_date=$6, status=$7, payment_method=$8, gateway_order_id=$9, gateway_payment_id=$10, created_at=$11;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	if _, err := ex.Exec(ctx, q, s.ID, s.UserID, s.PlanID, s.Tier, s.StartDate, s.EndDate, s.Status, s.PaymentMethod, s.GatewayOrderID, s.GatewayPaymentID, s.CreatedAt); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	const q = `
SELECT id, user_id, plan_id, tier, start_date, end_date, status, payment_method, gateway_order_id, gateway_payment_id, created_at
  FROM subscriptions
 WHERE user_id=$1;`
	return r.queryOne(ctx, tx, q, userID)
}

func (r *subscriptionRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.SubscriptionStatus) error {
	const q = `UPDATE subscriptions SET status=$2 WHERE id=$1;`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	tag, err := ex.Exec(ctx, q, id, status)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *subscriptionRepo) ExpireDue(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	// Strict <: a subscription ending exactly now is still active.
	const q = `UPDATE subscriptions SET status='expired' WHERE status='active' AND end_date < $1;`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	tag, err := ex.Exec(ctx, q, now)
	if err != nil {
		return 0, domain.ErrOperationFailed
	}
	return int(tag.RowsAffected()), nil
}

func (r *subscriptionRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM subscriptions GROUP BY status;`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	counts := make(map[model.SubscriptionStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		counts[model.SubscriptionStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return counts, nil
}

func (r *subscriptionRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...interface{}) (*model.Subscription, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	s := &model.Subscription{}
	var tier, status string
	row := ex.QueryRow(ctx, sql, args...)
	if err := row.Scan(&s.ID, &s.UserID, &s.PlanID, &tier, &s.StartDate, &s.EndDate, &status, &s.PaymentMethod, &s.GatewayOrderID, &s.GatewayPaymentID, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	s.Tier = model.Tier(tier)
	s.Status = model.SubscriptionStatus(status)
	return s, nil
}
