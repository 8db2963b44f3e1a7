package persistence

import (
	"context"
)

// UnitOfWork coordinates the invalidate-then-insert credential pair inside a
// single database transaction so a crash between the two steps cannot leave a
// reservation without any record of what happened.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetCredentialRepository returns a credential repository bound to the
	// current transaction
	GetCredentialRepository(ctx context.Context) CredentialRepository

	// GetLockRepository returns a lock repository bound to the current
	// transaction
	GetLockRepository(ctx context.Context) LockRepository
}
