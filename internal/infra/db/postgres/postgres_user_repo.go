package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"cambliss-news-backend/internal/domain"
	"cambliss-news-backend/internal/domain/ports/repository"
)

// Ensure userRepo implements repository.UserRepository
var _ repository.UserRepository = (*userRepo)(nil)

// Schema:
//
//	CREATE TABLE users (
//	  id     TEXT PRIMARY KEY,  -- identity-provider user id
//	  points BIGINT NOT NULL DEFAULT 0
//	);
type userRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *userRepo {
	return &userRepo{pool: pool}
}

func (r *userRepo) AddPoints(ctx context.Context, tx repository.Tx, userID string, delta int64) (int64, error) {
	const q = `
INSERT INTO users (id, points) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET points = users.points + $2
RETURNING points;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	var balance int64
	if err := ex.QueryRow(ctx, q, userID, delta).Scan(&balance); err != nil {
		return 0, domain.ErrOperationFailed
	}
	return balance, nil
}

func (r *userRepo) Points(ctx context.Context, tx repository.Tx, userID string) (int64, error) {
	const q = `SELECT points FROM users WHERE id=$1;`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	var points int64
	if err := ex.QueryRow(ctx, q, userID).Scan(&points); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, domain.ErrReadDatabaseRow
	}
	return points, nil
}
