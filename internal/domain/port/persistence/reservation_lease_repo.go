package persistence

import (
	"context"
	"time"
)

// ReservationLeaseRepository serializes credential issuance per reservation
// across service instances. The in-process queue already orders calls inside
// one instance; the lease row is the cross-instance line of defense.
type ReservationLeaseRepository interface {
	// AcquireLease attempts to take the issuance lease for a reservation.
	// The lease expires after the given duration so a crashed holder cannot
	// block the reservation forever.
	//
	// Possible errors:
	// - ErrReservationBusy: if another issuance holds an unexpired lease
	// - ErrDatabaseConnection: if the upsert fails
	AcquireLease(ctx context.Context, reservationID uint64, duration time.Duration) error

	// ReleaseLease releases a previously acquired lease. Releasing an
	// already-expired or missing lease is not an error.
	ReleaseLease(ctx context.Context, reservationID uint64) error

	// CleanupExpiredLeases removes all expired leases
	CleanupExpiredLeases(ctx context.Context) error
}
