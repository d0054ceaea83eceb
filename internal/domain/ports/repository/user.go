package repository

import "context"

// UserRepository is the port for the server-owned user record. The source
// product kept points in client storage; here they live server-side keyed
// by the authenticated user id.
type UserRepository interface {
	// AddPoints credits delta Cambliss Points to the user, creating the
	// row if needed, and returns the new balance.
	AddPoints(ctx context.Context, tx Tx, userID string, delta int64) (int64, error)

	// Points returns the user's current balance; zero for unknown users.
	Points(ctx context.Context, tx Tx, userID string) (int64, error)
}
