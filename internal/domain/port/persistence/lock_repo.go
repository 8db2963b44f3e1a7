package persistence

import (
	"context"

	"github.com/vleky/trailer-access/internal/domain/entity"
)

// LockRepository defines persistence for trailer-device lock bindings.
// The table carries two uniqueness invariants: one lock per trailer and one
// trailer per (provider, device) pair.
type LockRepository interface {
	// GetByTrailerID returns the lock bound to the trailer
	//
	// Possible errors:
	// - ErrLockNotFound: if no lock is bound to the trailer
	// - ErrDatabaseConnection: if the query fails
	GetByTrailerID(ctx context.Context, trailerID uint64) (*entity.Lock, error)

	// GetActiveByTrailerID returns the lock only when it is marked active
	//
	// Possible errors:
	// - ErrNoActiveLock: if no active lock is bound to the trailer
	// - ErrDatabaseConnection: if the query fails
	GetActiveByTrailerID(ctx context.Context, trailerID uint64) (*entity.Lock, error)

	// GetByDevice returns the lock row holding the physical device, if any
	//
	// Possible errors:
	// - ErrLockNotFound: if the device is not bound anywhere
	// - ErrDatabaseConnection: if the query fails
	GetByDevice(ctx context.Context, provider, deviceID string) (*entity.Lock, error)

	// Save upserts the lock keyed by trailer ID
	Save(ctx context.Context, lock *entity.Lock) (*entity.Lock, error)

	// Update persists changes to an existing lock row keyed by its ID
	Update(ctx context.Context, lock *entity.Lock) error

	// DeleteByTrailerID removes the trailer's lock, returning rows deleted
	DeleteByTrailerID(ctx context.Context, trailerID uint64) (int64, error)
}
