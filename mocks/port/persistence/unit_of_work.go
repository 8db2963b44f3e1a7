package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	persistenceport "github.com/vleky/trailer-access/internal/domain/port/persistence"
)

// MockUnitOfWork is a testify mock for the UnitOfWork port
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) GetCredentialRepository(ctx context.Context) persistenceport.CredentialRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistenceport.CredentialRepository)
}

func (m *MockUnitOfWork) GetLockRepository(ctx context.Context) persistenceport.LockRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistenceport.LockRepository)
}
