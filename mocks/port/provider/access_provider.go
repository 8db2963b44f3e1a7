package provider

import (
	"context"

	"github.com/stretchr/testify/mock"

	providerport "github.com/vleky/trailer-access/internal/domain/port/provider"
)

// MockAccessProvider is a testify mock for the AccessProvider port
type MockAccessProvider struct {
	mock.Mock
}

func (m *MockAccessProvider) ListDevices(ctx context.Context) ([]providerport.Device, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]providerport.Device), args.Error(1)
}

func (m *MockAccessProvider) CreateOneTimePin(ctx context.Context, req providerport.OneTimeRequest) (*providerport.CredentialResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providerport.CredentialResult), args.Error(1)
}

func (m *MockAccessProvider) CreateHourlyPin(ctx context.Context, req providerport.HourlyRequest) (*providerport.CredentialResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providerport.CredentialResult), args.Error(1)
}

func (m *MockAccessProvider) CreateDailyPin(ctx context.Context, req providerport.DailyRequest) (*providerport.CredentialResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providerport.CredentialResult), args.Error(1)
}
