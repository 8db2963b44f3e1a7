package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vleky/trailer-access/internal/domain/entity"
	usecaseport "github.com/vleky/trailer-access/internal/domain/port/usecase"
)

// MockLockRegistry is a testify mock for the LockRegistry port
type MockLockRegistry struct {
	mock.Mock
}

func (m *MockLockRegistry) Assign(ctx context.Context, req usecaseport.AssignLockRequest) (*usecaseport.AssignLockResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecaseport.AssignLockResult), args.Error(1)
}

func (m *MockLockRegistry) Get(ctx context.Context, trailerID uint64) (*entity.Lock, error) {
	args := m.Called(ctx, trailerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lock), args.Error(1)
}

func (m *MockLockRegistry) Remove(ctx context.Context, trailerID uint64) (int64, error) {
	args := m.Called(ctx, trailerID)
	return args.Get(0).(int64), args.Error(1)
}
