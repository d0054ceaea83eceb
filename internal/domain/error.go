package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound             = errors.New("entity not found")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrAuthRequired         = errors.New("authentication required")
	ErrInvalidSignature     = errors.New("invalid payment signature")
	ErrGatewayFailure       = errors.New("payment gateway failure")
	ErrOrderNotOutstanding  = errors.New("order not outstanding")
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrLockNotAcquired      = errors.New("could not acquire lock")
	ErrOperationFailed      = errors.New("operation failed")
	ErrReadDatabaseRow      = errors.New("failed to read database row")
	ErrInvalidExecContext   = errors.New("invalid execution context")
)
