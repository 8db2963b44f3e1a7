package persistence

import (
	"context"

	"github.com/vleky/trailer-access/internal/domain/entity"
)

// CredentialRepository is the persisted ledger of issued PINs. Rows are only
// ever appended or soft-invalidated; nothing hard-deletes history.
type CredentialRepository interface {
	// LatestActive returns the most recently created credential for the
	// reservation with deleted_at still null
	//
	// Possible errors:
	// - ErrCredentialNotFound: if the reservation has no active credential
	// - ErrDatabaseConnection: if the query fails
	LatestActive(ctx context.Context, reservationID uint64) (*entity.Credential, error)

	// SoftInvalidateAll stamps deleted_at on every active credential for the
	// reservation and returns how many rows were touched
	SoftInvalidateAll(ctx context.Context, reservationID uint64) (int64, error)

	// Insert appends a new credential row
	//
	// Possible errors:
	// - ErrConstraintViolation: if another active credential already exists
	//   for the reservation (partial unique index)
	// - ErrDatabaseConnection: if the insert fails
	Insert(ctx context.Context, credential *entity.Credential) error

	// CountActive returns the number of active credentials for the reservation
	CountActive(ctx context.Context, reservationID uint64) (int64, error)
}
