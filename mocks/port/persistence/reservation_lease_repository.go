package persistence

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockReservationLeaseRepository is a testify mock for the
// ReservationLeaseRepository port
type MockReservationLeaseRepository struct {
	mock.Mock
}

func (m *MockReservationLeaseRepository) AcquireLease(ctx context.Context, reservationID uint64, duration time.Duration) error {
	args := m.Called(ctx, reservationID, duration)
	return args.Error(0)
}

func (m *MockReservationLeaseRepository) ReleaseLease(ctx context.Context, reservationID uint64) error {
	args := m.Called(ctx, reservationID)
	return args.Error(0)
}

func (m *MockReservationLeaseRepository) CleanupExpiredLeases(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
