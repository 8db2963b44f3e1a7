package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vleky/trailer-access/internal/domain/entity"
)

// MockTrailerRepository is a testify mock for the TrailerRepository port
type MockTrailerRepository struct {
	mock.Mock
}

func (m *MockTrailerRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTrailerRepository) GetByID(ctx context.Context, id uint64) (*entity.Trailer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Trailer), args.Error(1)
}

func (m *MockTrailerRepository) List(ctx context.Context) ([]*entity.Trailer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Trailer), args.Error(1)
}

func (m *MockTrailerRepository) Create(ctx context.Context, trailer *entity.Trailer) error {
	args := m.Called(ctx, trailer)
	return args.Error(0)
}

func (m *MockTrailerRepository) Update(ctx context.Context, trailer *entity.Trailer) error {
	args := m.Called(ctx, trailer)
	return args.Error(0)
}

func (m *MockTrailerRepository) Delete(ctx context.Context, id uint64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
