package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vleky/trailer-access/internal/domain/entity"
)

// MockCredentialRepository is a testify mock for the CredentialRepository port
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) LatestActive(ctx context.Context, reservationID uint64) (*entity.Credential, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Credential), args.Error(1)
}

func (m *MockCredentialRepository) SoftInvalidateAll(ctx context.Context, reservationID uint64) (int64, error) {
	args := m.Called(ctx, reservationID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCredentialRepository) Insert(ctx context.Context, credential *entity.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

func (m *MockCredentialRepository) CountActive(ctx context.Context, reservationID uint64) (int64, error) {
	args := m.Called(ctx, reservationID)
	return args.Get(0).(int64), args.Error(1)
}
