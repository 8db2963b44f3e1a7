package persistence

import (
	"context"

	"github.com/vleky/trailer-access/internal/domain/entity"
)

// TrailerRepository defines persistence for trailers. The lock registry only
// consumes Exists and GetByID; the rest backs the admin CRUD surface.
type TrailerRepository interface {
	// Exists reports whether the trailer is present
	Exists(ctx context.Context, id uint64) (bool, error)

	// GetByID retrieves a trailer by ID
	//
	// Possible errors:
	// - ErrTrailerNotFound: if the trailer doesn't exist
	// - ErrDatabaseConnection: if the query fails
	GetByID(ctx context.Context, id uint64) (*entity.Trailer, error)

	// List returns all trailers, newest first
	List(ctx context.Context) ([]*entity.Trailer, error)

	// Create inserts a new trailer and fills in its assigned ID
	Create(ctx context.Context, trailer *entity.Trailer) error

	// Update persists changes to an existing trailer
	Update(ctx context.Context, trailer *entity.Trailer) error

	// Delete removes a trailer, returning rows deleted
	Delete(ctx context.Context, id uint64) (int64, error)
}
