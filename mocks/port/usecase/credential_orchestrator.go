package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	usecaseport "github.com/vleky/trailer-access/internal/domain/port/usecase"
)

// MockCredentialOrchestrator is a testify mock for the
// CredentialOrchestrator port
type MockCredentialOrchestrator struct {
	mock.Mock
}

func (m *MockCredentialOrchestrator) IssueOrRefresh(ctx context.Context, reservationID, trailerID uint64, window usecaseport.CredentialWindow) (*usecaseport.CredentialDescriptor, error) {
	args := m.Called(ctx, reservationID, trailerID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecaseport.CredentialDescriptor), args.Error(1)
}

func (m *MockCredentialOrchestrator) ReadActive(ctx context.Context, reservationID uint64) (*usecaseport.CredentialDescriptor, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecaseport.CredentialDescriptor), args.Error(1)
}
