package usecase

import (
	"context"

	"github.com/vleky/trailer-access/internal/domain/entity"
)

// AssignLockRequest represents an incoming lock assignment
type AssignLockRequest struct {
	TrailerID uint64
	Provider  string
	DeviceID  string
	Name      string
	Active    bool
	// Force authorizes moving a device already bound to another trailer
	Force bool
}

// AssignLockResult carries the saved lock plus whether a forced transfer
// actually moved the device off another trailer
type AssignLockResult struct {
	Lock  *entity.Lock
	Moved bool
}

// LockRegistry defines the trailer-device binding operations
type LockRegistry interface {
	// Assign binds a device to a trailer, upserting by trailer.
	// Without force, a device owned by a different trailer yields a
	// LockConflictError naming the current owner.
	Assign(ctx context.Context, req AssignLockRequest) (*AssignLockResult, error)

	// Get returns the lock bound to the trailer
	Get(ctx context.Context, trailerID uint64) (*entity.Lock, error)

	// Remove deletes the trailer's lock, returning rows deleted (0 or 1)
	Remove(ctx context.Context, trailerID uint64) (int64, error)
}
