package trailers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vleky/trailer-access/internal/domain/entity"
	errs "github.com/vleky/trailer-access/internal/domain/error"
	coremocks "github.com/vleky/trailer-access/mocks/port/core"
	persistencemocks "github.com/vleky/trailer-access/mocks/port/persistence"
)

func TestTrailerService_Create(t *testing.T) {
	ctx := context.Background()
	fixedTime := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("should create with timestamps and empty photo list", func(t *testing.T) {
		repo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		repo.On("Create", ctx, mock.AnythingOfType("*entity.Trailer")).Return(nil)

		service := NewService(repo, tp, logger)

		created, err := service.Create(ctx, &entity.Trailer{Name: "Blue flatbed"})

		assert.NoError(t, err)
		assert.Equal(t, fixedTime, created.CreatedAt)
		assert.Equal(t, fixedTime, created.UpdatedAt)
		assert.NotNil(t, created.Photos)
		repo.AssertExpectations(t)
	})

	t.Run("should reject blank names", func(t *testing.T) {
		repo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		service := NewService(repo, tp, logger)

		_, err := service.Create(ctx, &entity.Trailer{Name: "   "})

		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
		repo.AssertNotCalled(t, "Create")
	})
}

func TestTrailerService_Update(t *testing.T) {
	ctx := context.Background()
	fixedTime := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("should apply the patch and bump UpdatedAt", func(t *testing.T) {
		repo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		existing := &entity.Trailer{
			ID:        7,
			Name:      "Blue flatbed",
			UpdatedAt: fixedTime.Add(-time.Hour),
		}
		repo.On("GetByID", ctx, uint64(7)).Return(existing, nil)
		repo.On("Update", ctx, existing).Return(nil)

		service := NewService(repo, tp, logger)

		updated, err := service.Update(ctx, 7, func(trailer *entity.Trailer) {
			trailer.Location = "Brno"
		})

		assert.NoError(t, err)
		assert.Equal(t, "Brno", updated.Location)
		assert.Equal(t, fixedTime, updated.UpdatedAt)
	})

	t.Run("should propagate not-found", func(t *testing.T) {
		repo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		repo.On("GetByID", ctx, uint64(7)).Return(nil, errs.ErrTrailerNotFound)

		service := NewService(repo, tp, logger)

		_, err := service.Update(ctx, 7, func(*entity.Trailer) {})
		assert.ErrorIs(t, err, errs.ErrTrailerNotFound)
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("should reject zero ids", func(t *testing.T) {
		repo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		service := NewService(repo, tp, logger)

		_, err := service.Update(ctx, 0, func(*entity.Trailer) {})
		assert.ErrorIs(t, err, errs.ErrInvalidTrailerID)
	})
}

func TestTrailerService_Delete(t *testing.T) {
	ctx := context.Background()
	fixedTime := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	repo := new(persistencemocks.MockTrailerRepository)
	tp := coremocks.NewFixedTimeProvider(fixedTime)
	logger := coremocks.NewRelaxedLogger()

	repo.On("Delete", ctx, uint64(7)).Return(int64(1), nil)

	service := NewService(repo, tp, logger)

	deleted, err := service.Delete(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = service.Delete(ctx, 0)
	assert.ErrorIs(t, err, errs.ErrInvalidTrailerID)
}
