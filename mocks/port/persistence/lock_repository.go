package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vleky/trailer-access/internal/domain/entity"
)

// MockLockRepository is a testify mock for the LockRepository port
type MockLockRepository struct {
	mock.Mock
}

func (m *MockLockRepository) GetByTrailerID(ctx context.Context, trailerID uint64) (*entity.Lock, error) {
	args := m.Called(ctx, trailerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lock), args.Error(1)
}

func (m *MockLockRepository) GetActiveByTrailerID(ctx context.Context, trailerID uint64) (*entity.Lock, error) {
	args := m.Called(ctx, trailerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lock), args.Error(1)
}

func (m *MockLockRepository) GetByDevice(ctx context.Context, provider, deviceID string) (*entity.Lock, error) {
	args := m.Called(ctx, provider, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lock), args.Error(1)
}

func (m *MockLockRepository) Save(ctx context.Context, lock *entity.Lock) (*entity.Lock, error) {
	args := m.Called(ctx, lock)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lock), args.Error(1)
}

func (m *MockLockRepository) Update(ctx context.Context, lock *entity.Lock) error {
	args := m.Called(ctx, lock)
	return args.Error(0)
}

func (m *MockLockRepository) DeleteByTrailerID(ctx context.Context, trailerID uint64) (int64, error) {
	args := m.Called(ctx, trailerID)
	return args.Get(0).(int64), args.Error(1)
}
