package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "github.com/vleky/trailer-access/internal/domain/error"
	coreport "github.com/vleky/trailer-access/internal/domain/port/core"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// ReservationLeaseRepository implements the cross-instance issuance lease
// using GORM
type ReservationLeaseRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewReservationLeaseRepository creates a new ReservationLeaseRepository instance
func NewReservationLeaseRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *ReservationLeaseRepository {
	return &ReservationLeaseRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// AcquireLease attempts to take the issuance lease for a reservation.
// A single upsert either inserts the lease row or steals an expired one;
// an unexpired lease held elsewhere makes the ON CONFLICT update a no-op
// and the duplicate key surfaces as ErrReservationBusy.
func (r *ReservationLeaseRepository) AcquireLease(ctx context.Context, reservationID uint64, duration time.Duration) error {
	r.logger.Debug("Acquiring issuance lease", map[string]any{
		"reservation_id": reservationID,
		"duration":       duration.String(),
	})

	now := r.timeProvider.Now()
	expiresAt := now.Add(duration)

	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO reservation_leases (reservation_id, locked_at, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (reservation_id) DO UPDATE
		SET locked_at = EXCLUDED.locked_at,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = EXCLUDED.updated_at
		WHERE reservation_leases.expires_at <= ?`,
		reservationID, now, expiresAt, now, now,
		now,
	)

	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Reservation already holds an issuance lease", map[string]any{
				"reservation_id": reservationID,
			})
			return errs.ErrReservationBusy
		}

		if isContextError(result.Error) {
			r.logger.Warn("Context timeout acquiring lease", map[string]any{
				"reservation_id": reservationID,
				"error":          result.Error.Error(),
			})
			return fmt.Errorf("lease acquisition timeout: %w", result.Error)
		}

		r.logger.Error("Database error acquiring lease", map[string]any{
			"reservation_id": reservationID,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	// Postgres reports the conflicting no-op as zero rows affected rather
	// than a duplicate key error
	if result.RowsAffected == 0 {
		r.logger.Warn("Reservation already holds an issuance lease", map[string]any{
			"reservation_id": reservationID,
		})
		return errs.ErrReservationBusy
	}

	r.logger.Debug("Issuance lease acquired", map[string]any{
		"reservation_id": reservationID,
		"expires_at":     expiresAt,
	})
	return nil
}

// ReleaseLease releases a previously acquired lease. A missing lease is
// treated as already released.
func (r *ReservationLeaseRepository) ReleaseLease(ctx context.Context, reservationID uint64) error {
	var lease model.ReservationLease
	findResult := r.db.WithContext(ctx).Where("reservation_id = ?", reservationID).First(&lease)

	if errors.Is(findResult.Error, gorm.ErrRecordNotFound) {
		r.logger.Debug("No lease found to release", map[string]any{
			"reservation_id": reservationID,
		})
		return nil
	}

	if findResult.Error != nil && !isContextError(findResult.Error) {
		r.logger.Error("Error checking lease status", map[string]any{
			"reservation_id": reservationID,
			"error":          findResult.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, findResult.Error.Error())
	}

	result := r.db.WithContext(ctx).Where("reservation_id = ?", reservationID).Delete(&model.ReservationLease{})

	// A context timeout here is tolerable, the lease expires on its own
	if result.Error != nil && isContextError(result.Error) {
		r.logger.Warn("Context timeout releasing lease, it will expire on its own", map[string]any{
			"reservation_id": reservationID,
			"error":          result.Error.Error(),
		})
		return nil
	}

	if result.Error != nil {
		r.logger.Error("Failed to release lease", map[string]any{
			"reservation_id": reservationID,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected > 0 {
		r.logger.Debug("Issuance lease released", map[string]any{
			"reservation_id": reservationID,
		})
	}
	return nil
}

// CleanupExpiredLeases removes all expired leases
func (r *ReservationLeaseRepository) CleanupExpiredLeases(ctx context.Context) error {
	now := r.timeProvider.Now()

	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&model.ReservationLease{})

	if result.Error != nil {
		r.logger.Error("Failed to clean up expired leases", map[string]any{
			"error": result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Expired leases removed", map[string]any{
			"leases_removed": result.RowsAffected,
		})
	}
	return nil
}
