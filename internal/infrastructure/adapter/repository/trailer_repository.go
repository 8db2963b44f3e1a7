package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vleky/trailer-access/internal/domain/entity"
	errs "github.com/vleky/trailer-access/internal/domain/error"
	coreport "github.com/vleky/trailer-access/internal/domain/port/core"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// TrailerRepository implements trailer persistence using GORM
type TrailerRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewTrailerRepository creates a new TrailerRepository instance
func NewTrailerRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *TrailerRepository {
	return &TrailerRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

func (r *TrailerRepository) modelToEntity(m *model.Trailer) *entity.Trailer {
	photos := []string{}
	if m.PhotosJSON != "" {
		if err := json.Unmarshal([]byte(m.PhotosJSON), &photos); err != nil {
			r.logger.Warn("Malformed photos payload, returning empty list", map[string]any{
				"trailer_id": m.ID,
				"error":      err.Error(),
			})
			photos = []string{}
		}
	}

	return &entity.Trailer{
		ID:             m.ID,
		Name:           m.Name,
		TotalWeightKg:  m.TotalWeightKg,
		PayloadKg:      m.PayloadKg,
		BedWidthM:      m.BedWidthM,
		BedLengthM:     m.BedLengthM,
		Cover:          m.Cover,
		Location:       m.Location,
		Lat:            m.Lat,
		Lng:            m.Lng,
		PricePerDayCZK: m.PricePerDayCZK,
		OwnerName:      m.OwnerName,
		Description:    m.Description,
		Photos:         photos,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (r *TrailerRepository) entityToModel(trailer *entity.Trailer) (*model.Trailer, error) {
	photos := trailer.Photos
	if photos == nil {
		photos = []string{}
	}
	photosJSON, err := json.Marshal(photos)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding photos: %s", errs.ErrInternalServer, err.Error())
	}

	return &model.Trailer{
		ID:             trailer.ID,
		Name:           trailer.Name,
		TotalWeightKg:  trailer.TotalWeightKg,
		PayloadKg:      trailer.PayloadKg,
		BedWidthM:      trailer.BedWidthM,
		BedLengthM:     trailer.BedLengthM,
		Cover:          trailer.Cover,
		Location:       trailer.Location,
		Lat:            trailer.Lat,
		Lng:            trailer.Lng,
		PricePerDayCZK: trailer.PricePerDayCZK,
		OwnerName:      trailer.OwnerName,
		Description:    trailer.Description,
		PhotosJSON:     string(photosJSON),
		CreatedAt:      trailer.CreatedAt,
		UpdatedAt:      trailer.UpdatedAt,
	}, nil
}

// Exists reports whether the trailer is present
func (r *TrailerRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Trailer{}).Where("id = ?", id).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return count > 0, nil
}

// GetByID retrieves a trailer by ID
func (r *TrailerRepository) GetByID(ctx context.Context, id uint64) (*entity.Trailer, error) {
	var trailerModel model.Trailer
	result := r.db.WithContext(ctx).First(&trailerModel, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTrailerNotFound
		}
		r.logger.Error("Database error when getting trailer", map[string]any{
			"trailer_id": id,
			"error":      result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return r.modelToEntity(&trailerModel), nil
}

// List returns all trailers, newest first
func (r *TrailerRepository) List(ctx context.Context) ([]*entity.Trailer, error) {
	var trailerModels []model.Trailer
	result := r.db.WithContext(ctx).Order("id DESC").Find(&trailerModels)

	if result.Error != nil {
		r.logger.Error("Database error when listing trailers", map[string]any{
			"error": result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	trailers := make([]*entity.Trailer, 0, len(trailerModels))
	for i := range trailerModels {
		trailers = append(trailers, r.modelToEntity(&trailerModels[i]))
	}
	return trailers, nil
}

// Create inserts a new trailer and fills in its assigned ID
func (r *TrailerRepository) Create(ctx context.Context, trailer *entity.Trailer) error {
	trailerModel, err := r.entityToModel(trailer)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Create(trailerModel)
	if result.Error != nil {
		r.logger.Error("Database error when creating trailer", map[string]any{
			"name":  trailer.Name,
			"error": result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	trailer.ID = trailerModel.ID

	r.logger.Info("Trailer created", map[string]any{
		"trailer_id": trailer.ID,
		"name":       trailer.Name,
	})
	return nil
}

// Update persists changes to an existing trailer
func (r *TrailerRepository) Update(ctx context.Context, trailer *entity.Trailer) error {
	trailerModel, err := r.entityToModel(trailer)
	if err != nil {
		return err
	}
	trailerModel.UpdatedAt = r.timeProvider.Now()

	result := r.db.WithContext(ctx).Model(&model.Trailer{}).
		Where("id = ?", trailer.ID).
		Updates(map[string]interface{}{
			"name":              trailerModel.Name,
			"total_weight_kg":   trailerModel.TotalWeightKg,
			"payload_kg":        trailerModel.PayloadKg,
			"bed_width_m":       trailerModel.BedWidthM,
			"bed_length_m":      trailerModel.BedLengthM,
			"cover":             trailerModel.Cover,
			"location":          trailerModel.Location,
			"lat":               trailerModel.Lat,
			"lng":               trailerModel.Lng,
			"price_per_day_czk": trailerModel.PricePerDayCZK,
			"owner_name":        trailerModel.OwnerName,
			"description":       trailerModel.Description,
			"photos_json":       trailerModel.PhotosJSON,
			"updated_at":        trailerModel.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Error("Database error when updating trailer", map[string]any{
			"trailer_id": trailer.ID,
			"error":      result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		return errs.ErrTrailerNotFound
	}

	r.logger.Info("Trailer updated", map[string]any{
		"trailer_id": trailer.ID,
	})
	return nil
}

// Delete removes a trailer, returning rows deleted. The lock binding, if
// any, goes with it through the foreign key cascade.
func (r *TrailerRepository) Delete(ctx context.Context, id uint64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Trailer{}, id)

	if result.Error != nil {
		r.logger.Error("Database error when deleting trailer", map[string]any{
			"trailer_id": id,
			"error":      result.Error.Error(),
		})
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Trailer deleted", map[string]any{
			"trailer_id": id,
		})
	}
	return result.RowsAffected, nil
}
