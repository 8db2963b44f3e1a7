package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vleky/trailer-access/internal/domain/entity"
	errs "github.com/vleky/trailer-access/internal/domain/error"
	coreport "github.com/vleky/trailer-access/internal/domain/port/core"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockRepository implements lock-binding persistence using GORM
type LockRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewLockRepository creates a new LockRepository instance
func NewLockRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *LockRepository {
	return &LockRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func lockModelToEntity(lockModel *model.Lock) *entity.Lock {
	return &entity.Lock{
		ID:        lockModel.ID,
		TrailerID: lockModel.TrailerID,
		Provider:  lockModel.Provider,
		DeviceID:  lockModel.DeviceID,
		Name:      lockModel.Name,
		Active:    lockModel.Active,
		CreatedAt: lockModel.CreatedAt,
		UpdatedAt: lockModel.UpdatedAt,
	}
}

func lockEntityToModel(lock *entity.Lock) *model.Lock {
	return &model.Lock{
		ID:        lock.ID,
		TrailerID: lock.TrailerID,
		Provider:  lock.Provider,
		DeviceID:  lock.DeviceID,
		Name:      lock.Name,
		Active:    lock.Active,
		CreatedAt: lock.CreatedAt,
		UpdatedAt: lock.UpdatedAt,
	}
}

// handleDatabaseError standardizes database error handling
func (r *LockRepository) handleDatabaseError(operation string, err error, trailerID uint64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrLockNotFound
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"trailer_id": trailerID,
		"error":      err.Error(),
	})

	if r.errorClassifier.IsDuplicateKeyError(err) {
		return errs.ErrLockAlreadyAssigned
	}

	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// GetByTrailerID returns the lock bound to the trailer
func (r *LockRepository) GetByTrailerID(ctx context.Context, trailerID uint64) (*entity.Lock, error) {
	var lockModel model.Lock
	result := r.db.WithContext(ctx).Where("trailer_id = ?", trailerID).First(&lockModel)

	if result.Error != nil {
		return nil, r.handleDatabaseError("getting lock", result.Error, trailerID)
	}

	return lockModelToEntity(&lockModel), nil
}

// GetActiveByTrailerID returns the lock only when it is marked active
func (r *LockRepository) GetActiveByTrailerID(ctx context.Context, trailerID uint64) (*entity.Lock, error) {
	var lockModel model.Lock
	result := r.db.WithContext(ctx).
		Where("trailer_id = ? AND active = ?", trailerID, true).
		First(&lockModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNoActiveLock
		}
		return nil, r.handleDatabaseError("getting active lock", result.Error, trailerID)
	}

	return lockModelToEntity(&lockModel), nil
}

// GetByDevice returns the lock row holding the physical device, if any
func (r *LockRepository) GetByDevice(ctx context.Context, provider, deviceID string) (*entity.Lock, error) {
	var lockModel model.Lock
	result := r.db.WithContext(ctx).
		Where("provider = ? AND device_id = ?", provider, deviceID).
		First(&lockModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrLockNotFound
		}
		r.logger.Error("Database error when getting lock by device", map[string]any{
			"provider":  provider,
			"device_id": deviceID,
			"error":     result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return lockModelToEntity(&lockModel), nil
}

// Save upserts the lock keyed by trailer ID. The (provider, device_id)
// uniqueness stays enforced by the index; violations surface as
// ErrLockAlreadyAssigned for the registry to translate.
func (r *LockRepository) Save(ctx context.Context, lock *entity.Lock) (*entity.Lock, error) {
	r.logger.Debug("Saving lock binding", map[string]any{
		"trailer_id": lock.TrailerID,
		"provider":   lock.Provider,
		"device_id":  lock.DeviceID,
	})

	lockModel := lockEntityToModel(lock)
	lockModel.UpdatedAt = r.timeProvider.Now()

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "trailer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"provider", "device_id", "name", "active", "updated_at",
			}),
		}).
		Omit("Trailer").
		Create(lockModel)

	if result.Error != nil {
		return nil, r.handleDatabaseError("saving lock", result.Error, lock.TrailerID)
	}

	// The upsert path doesn't report the surviving row's id, so read it back
	var saved model.Lock
	if err := r.db.WithContext(ctx).Where("trailer_id = ?", lock.TrailerID).First(&saved).Error; err != nil {
		return nil, r.handleDatabaseError("reloading saved lock", err, lock.TrailerID)
	}

	r.logger.Info("Lock binding saved", map[string]any{
		"lock_id":    saved.ID,
		"trailer_id": saved.TrailerID,
		"device_id":  saved.DeviceID,
		"active":     saved.Active,
	})

	return lockModelToEntity(&saved), nil
}

// Update persists changes to an existing lock row keyed by its ID
func (r *LockRepository) Update(ctx context.Context, lock *entity.Lock) error {
	result := r.db.WithContext(ctx).Model(&model.Lock{}).
		Where("id = ?", lock.ID).
		Updates(map[string]interface{}{
			"trailer_id": lock.TrailerID,
			"provider":   lock.Provider,
			"device_id":  lock.DeviceID,
			"name":       lock.Name,
			"active":     lock.Active,
			"updated_at": r.timeProvider.Now(),
		})

	if result.Error != nil {
		return r.handleDatabaseError("updating lock", result.Error, lock.TrailerID)
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("Lock not found during update", map[string]any{
			"lock_id": lock.ID,
		})
		return errs.ErrLockNotFound
	}

	r.logger.Info("Lock updated", map[string]any{
		"lock_id":    lock.ID,
		"trailer_id": lock.TrailerID,
		"device_id":  lock.DeviceID,
	})
	return nil
}

// DeleteByTrailerID removes the trailer's lock, returning rows deleted
func (r *LockRepository) DeleteByTrailerID(ctx context.Context, trailerID uint64) (int64, error) {
	result := r.db.WithContext(ctx).Where("trailer_id = ?", trailerID).Delete(&model.Lock{})

	if result.Error != nil {
		return 0, r.handleDatabaseError("deleting lock", result.Error, trailerID)
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Lock binding removed", map[string]any{
			"trailer_id": trailerID,
		})
	}
	return result.RowsAffected, nil
}
