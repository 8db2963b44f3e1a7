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
)

// CredentialRepository implements the PIN ledger using GORM
type CredentialRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewCredentialRepository creates a new CredentialRepository instance
func NewCredentialRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *CredentialRepository {
	return &CredentialRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func credentialModelToEntity(m *model.Credential) *entity.Credential {
	return &entity.Credential{
		ID:                   m.ID,
		ReservationID:        m.ReservationID,
		DeviceID:             m.DeviceID,
		Pin:                  m.Pin,
		ProviderCredentialID: m.ProviderCredentialID,
		Kind:                 entity.CredentialKind(m.Kind),
		Mock:                 m.Mock,
		StartAt:              m.StartAt,
		EndAt:                m.EndAt,
		CreatedAt:            m.CreatedAt,
		DeletedAt:            m.DeletedAt,
	}
}

// LatestActive returns the most recently created active credential for the
// reservation. Ordered by id, not created_at, so two rows written in the
// same clock tick still resolve deterministically.
func (r *CredentialRepository) LatestActive(ctx context.Context, reservationID uint64) (*entity.Credential, error) {
	var credModel model.Credential
	result := r.db.WithContext(ctx).
		Where("reservation_id = ? AND deleted_at IS NULL", reservationID).
		Order("id DESC").
		First(&credModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrCredentialNotFound
		}
		r.logger.Error("Database error when getting active credential", map[string]any{
			"reservation_id": reservationID,
			"error":          result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return credentialModelToEntity(&credModel), nil
}

// SoftInvalidateAll stamps deleted_at on every active credential for the
// reservation and returns how many rows were touched
func (r *CredentialRepository) SoftInvalidateAll(ctx context.Context, reservationID uint64) (int64, error) {
	now := r.timeProvider.Now()

	result := r.db.WithContext(ctx).Model(&model.Credential{}).
		Where("reservation_id = ? AND deleted_at IS NULL", reservationID).
		Update("deleted_at", now)

	if result.Error != nil {
		r.logger.Error("Database error when invalidating credentials", map[string]any{
			"reservation_id": reservationID,
			"error":          result.Error.Error(),
		})
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected > 0 {
		r.logger.Debug("Credentials invalidated", map[string]any{
			"reservation_id": reservationID,
			"rows":           result.RowsAffected,
		})
	}
	return result.RowsAffected, nil
}

// Insert appends a new credential row. The partial unique index on
// (reservation_id) WHERE deleted_at IS NULL rejects a second active row,
// which surfaces here as ErrConstraintViolation.
func (r *CredentialRepository) Insert(ctx context.Context, credential *entity.Credential) error {
	credModel := model.Credential{
		ReservationID:        credential.ReservationID,
		DeviceID:             credential.DeviceID,
		Pin:                  credential.Pin,
		ProviderCredentialID: credential.ProviderCredentialID,
		Kind:                 string(credential.Kind),
		Mock:                 credential.Mock,
		StartAt:              credential.StartAt,
		EndAt:                credential.EndAt,
		CreatedAt:            credential.CreatedAt,
		DeletedAt:            credential.DeletedAt,
	}

	result := r.db.WithContext(ctx).Create(&credModel)

	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Concurrent active credential detected", map[string]any{
				"reservation_id": credential.ReservationID,
			})
			return fmt.Errorf("%w: active credential already exists for reservation %d",
				errs.ErrConstraintViolation, credential.ReservationID)
		}
		r.logger.Error("Database error when inserting credential", map[string]any{
			"reservation_id": credential.ReservationID,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	credential.ID = credModel.ID

	r.logger.Info("Credential recorded", map[string]any{
		"credential_id":  credModel.ID,
		"reservation_id": credential.ReservationID,
		"kind":           credModel.Kind,
		"mock":           credModel.Mock,
	})
	return nil
}

// CountActive returns the number of active credentials for the reservation
func (r *CredentialRepository) CountActive(ctx context.Context, reservationID uint64) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Credential{}).
		Where("reservation_id = ? AND deleted_at IS NULL", reservationID).
		Count(&count)

	if result.Error != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return count, nil
}
