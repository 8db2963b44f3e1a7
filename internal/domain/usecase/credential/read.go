package credential

import (
	"context"

	"github.com/vleky/trailer-access/internal/domain/entity"
	errs "github.com/vleky/trailer-access/internal/domain/error"
	"github.com/vleky/trailer-access/internal/domain/port/usecase"
)

// ReadActive returns the reservation's current credential if its window is
// open. Window rejections are access-denied conditions, not server errors.
func (s *Service) ReadActive(ctx context.Context, reservationID uint64) (*usecase.CredentialDescriptor, error) {
	if reservationID == 0 {
		return nil, errs.ErrInvalidReservationID
	}

	current, err := s.credRepo.LatestActive(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	if windowErr := entity.WindowError(entity.ValidateWindow(current, now)); windowErr != nil {
		s.logger.Debug("Credential outside validity window", map[string]any{
			"reservation_id": reservationID,
			"start_at":       current.StartAt,
			"end_at":         current.EndAt,
			"now":            now,
		})
		return nil, windowErr
	}

	return &usecase.CredentialDescriptor{
		ReservationID: current.ReservationID,
		DeviceID:      current.DeviceID,
		Pin:           current.Pin,
		Kind:          current.Kind,
		StartAt:       current.StartAt,
		EndAt:         current.EndAt,
		Mock:          current.Mock,
	}, nil
}
