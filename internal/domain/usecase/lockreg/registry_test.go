package lockreg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vleky/trailer-access/internal/domain/entity"
	errs "github.com/vleky/trailer-access/internal/domain/error"
	"github.com/vleky/trailer-access/internal/domain/port/usecase"
	coremocks "github.com/vleky/trailer-access/mocks/port/core"
	persistencemocks "github.com/vleky/trailer-access/mocks/port/persistence"
)

func TestRegistry_Assign(t *testing.T) {
	fixedTime := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("should assign a free device", func(t *testing.T) {
		lockRepo := new(persistencemocks.MockLockRepository)
		trailerRepo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		trailerRepo.On("Exists", ctx, uint64(7)).Return(true, nil)
		lockRepo.On("GetByDevice", ctx, "igloohome", "IGK3-100").Return(nil, errs.ErrLockNotFound)
		lockRepo.On("Save", ctx, mock.AnythingOfType("*entity.Lock")).Return(&entity.Lock{
			ID:        1,
			TrailerID: 7,
			Provider:  "igloohome",
			DeviceID:  "IGK3-100",
			Active:    true,
		}, nil)

		registry := NewRegistry(lockRepo, trailerRepo, tp, logger)

		result, err := registry.Assign(ctx, usecase.AssignLockRequest{
			TrailerID: 7,
			DeviceID:  "IGK3-100",
			Active:    true,
		})

		assert.NoError(t, err)
		assert.False(t, result.Moved)
		assert.Equal(t, uint64(7), result.Lock.TrailerID)
		assert.Equal(t, "IGK3-100", result.Lock.DeviceID)
		lockRepo.AssertExpectations(t)
		trailerRepo.AssertExpectations(t)
	})

	t.Run("should upsert when the trailer already owns the device", func(t *testing.T) {
		lockRepo := new(persistencemocks.MockLockRepository)
		trailerRepo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		existing := &entity.Lock{ID: 1, TrailerID: 7, Provider: "igloohome", DeviceID: "IGK3-100", Active: true}

		trailerRepo.On("Exists", ctx, uint64(7)).Return(true, nil)
		lockRepo.On("GetByDevice", ctx, "igloohome", "IGK3-100").Return(existing, nil)
		lockRepo.On("Save", ctx, mock.AnythingOfType("*entity.Lock")).Return(existing, nil)

		registry := NewRegistry(lockRepo, trailerRepo, tp, logger)

		result, err := registry.Assign(ctx, usecase.AssignLockRequest{
			TrailerID: 7,
			DeviceID:  "IGK3-100",
			Active:    true,
		})

		assert.NoError(t, err)
		assert.False(t, result.Moved)
		lockRepo.AssertExpectations(t)
	})

	t.Run("should report a conflict naming the current owner", func(t *testing.T) {
		lockRepo := new(persistencemocks.MockLockRepository)
		trailerRepo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		owner := &entity.Lock{ID: 1, TrailerID: 9, Provider: "igloohome", DeviceID: "IGK3-100", Active: true}

		trailerRepo.On("Exists", ctx, uint64(7)).Return(true, nil)
		lockRepo.On("GetByDevice", ctx, "igloohome", "IGK3-100").Return(owner, nil)
		trailerRepo.On("GetByID", ctx, uint64(9)).Return(&entity.Trailer{ID: 9, Name: "Blue flatbed"}, nil)

		registry := NewRegistry(lockRepo, trailerRepo, tp, logger)

		result, err := registry.Assign(ctx, usecase.AssignLockRequest{
			TrailerID: 7,
			DeviceID:  "IGK3-100",
			Active:    true,
		})

		assert.Nil(t, result)
		var conflict *errs.LockConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, "igloohome", conflict.Provider)
		assert.Equal(t, "IGK3-100", conflict.DeviceID)
		assert.Equal(t, uint64(9), conflict.CurrentTrailerID)
		assert.Equal(t, "Blue flatbed", conflict.CurrentTrailerName)
		lockRepo.AssertNotCalled(t, "Save")
	})

	t.Run("should conflict even when the owning trailer row is gone", func(t *testing.T) {
		lockRepo := new(persistencemocks.MockLockRepository)
		trailerRepo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		owner := &entity.Lock{ID: 1, TrailerID: 9, Provider: "igloohome", DeviceID: "IGK3-100"}

		trailerRepo.On("Exists", ctx, uint64(7)).Return(true, nil)
		lockRepo.On("GetByDevice", ctx, "igloohome", "IGK3-100").Return(owner, nil)
		trailerRepo.On("GetByID", ctx, uint64(9)).Return(nil, errs.ErrTrailerNotFound)

		registry := NewRegistry(lockRepo, trailerRepo, tp, logger)

		_, err := registry.Assign(ctx, usecase.AssignLockRequest{
			TrailerID: 7,
			DeviceID:  "IGK3-100",
		})

		var conflict *errs.LockConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Empty(t, conflict.CurrentTrailerName)
	})

	t.Run("should transfer the device when forced", func(t *testing.T) {
		lockRepo := new(persistencemocks.MockLockRepository)
		trailerRepo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		owner := &entity.Lock{ID: 1, TrailerID: 9, Provider: "igloohome", DeviceID: "IGK3-100", Active: true}

		trailerRepo.On("Exists", ctx, uint64(7)).Return(true, nil)
		lockRepo.On("GetByDevice", ctx, "igloohome", "IGK3-100").Return(owner, nil)
		// The target trailer held its own lock; the transfer replaces it.
		lockRepo.On("DeleteByTrailerID", ctx, uint64(7)).Return(int64(1), nil)
		lockRepo.On("Update", ctx, mock.AnythingOfType("*entity.Lock")).Return(nil)

		registry := NewRegistry(lockRepo, trailerRepo, tp, logger)

		result, err := registry.Assign(ctx, usecase.AssignLockRequest{
			TrailerID: 7,
			DeviceID:  "IGK3-100",
			Name:      "moved lock",
			Active:    true,
			Force:     true,
		})

		assert.NoError(t, err)
		assert.True(t, result.Moved)
		assert.Equal(t, uint64(7), result.Lock.TrailerID)
		assert.Equal(t, "moved lock", result.Lock.Name)
		lockRepo.AssertExpectations(t)
	})

	t.Run("should reject unknown trailers", func(t *testing.T) {
		lockRepo := new(persistencemocks.MockLockRepository)
		trailerRepo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		trailerRepo.On("Exists", ctx, uint64(7)).Return(false, nil)

		registry := NewRegistry(lockRepo, trailerRepo, tp, logger)

		_, err := registry.Assign(ctx, usecase.AssignLockRequest{
			TrailerID: 7,
			DeviceID:  "IGK3-100",
		})

		assert.ErrorIs(t, err, errs.ErrTrailerNotFound)
		lockRepo.AssertNotCalled(t, "GetByDevice")
	})

	t.Run("should validate ids before touching persistence", func(t *testing.T) {
		lockRepo := new(persistencemocks.MockLockRepository)
		trailerRepo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		registry := NewRegistry(lockRepo, trailerRepo, tp, logger)

		_, err := registry.Assign(ctx, usecase.AssignLockRequest{DeviceID: "IGK3-100"})
		assert.ErrorIs(t, err, errs.ErrInvalidTrailerID)

		_, err = registry.Assign(ctx, usecase.AssignLockRequest{TrailerID: 7, DeviceID: "   "})
		assert.ErrorIs(t, err, errs.ErrInvalidDeviceID)

		trailerRepo.AssertNotCalled(t, "Exists")
	})

	t.Run("should surface repository failures", func(t *testing.T) {
		lockRepo := new(persistencemocks.MockLockRepository)
		trailerRepo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		dbErr := errors.New("connection reset")
		trailerRepo.On("Exists", ctx, uint64(7)).Return(false, dbErr)

		registry := NewRegistry(lockRepo, trailerRepo, tp, logger)

		_, err := registry.Assign(ctx, usecase.AssignLockRequest{TrailerID: 7, DeviceID: "IGK3-100"})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestRegistry_Get(t *testing.T) {
	ctx := context.Background()
	fixedTime := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("should return the trailer's lock", func(t *testing.T) {
		lockRepo := new(persistencemocks.MockLockRepository)
		trailerRepo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		lock := &entity.Lock{ID: 1, TrailerID: 7, DeviceID: "IGK3-100"}
		lockRepo.On("GetByTrailerID", ctx, uint64(7)).Return(lock, nil)

		registry := NewRegistry(lockRepo, trailerRepo, tp, logger)

		got, err := registry.Get(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, lock, got)
	})

	t.Run("should reject zero trailer id", func(t *testing.T) {
		lockRepo := new(persistencemocks.MockLockRepository)
		trailerRepo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		registry := NewRegistry(lockRepo, trailerRepo, tp, logger)

		_, err := registry.Get(ctx, 0)
		assert.ErrorIs(t, err, errs.ErrInvalidTrailerID)
	})
}

func TestRegistry_Remove(t *testing.T) {
	ctx := context.Background()
	fixedTime := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("should delete and report rows removed", func(t *testing.T) {
		lockRepo := new(persistencemocks.MockLockRepository)
		trailerRepo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		lockRepo.On("DeleteByTrailerID", ctx, uint64(7)).Return(int64(1), nil)

		registry := NewRegistry(lockRepo, trailerRepo, tp, logger)

		deleted, err := registry.Remove(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), deleted)
	})

	t.Run("removing a trailer without a lock is not an error", func(t *testing.T) {
		lockRepo := new(persistencemocks.MockLockRepository)
		trailerRepo := new(persistencemocks.MockTrailerRepository)
		tp := coremocks.NewFixedTimeProvider(fixedTime)
		logger := coremocks.NewRelaxedLogger()

		lockRepo.On("DeleteByTrailerID", ctx, uint64(7)).Return(int64(0), nil)

		registry := NewRegistry(lockRepo, trailerRepo, tp, logger)

		deleted, err := registry.Remove(ctx, 7)
		assert.NoError(t, err)
		assert.Zero(t, deleted)
	})
}
