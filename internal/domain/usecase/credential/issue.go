package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vleky/trailer-access/internal/domain/entity"
	errs "github.com/vleky/trailer-access/internal/domain/error"
	"github.com/vleky/trailer-access/internal/domain/port/usecase"
)

// IssueOrRefresh invalidates the reservation's active credential and issues a
// fresh one against the trailer's active lock. Creation flows pass an
// explicit window; refresh flows get [now, now+windowMinutes).
func (s *Service) IssueOrRefresh(
	ctx context.Context,
	reservationID, trailerID uint64,
	window usecase.CredentialWindow,
) (*usecase.CredentialDescriptor, error) {
	if reservationID == 0 {
		return nil, errs.ErrInvalidReservationID
	}
	if trailerID == 0 {
		return nil, errs.ErrInvalidTrailerID
	}

	lock, err := s.registry.Get(ctx, trailerID)
	if err != nil {
		if errors.Is(err, errs.ErrLockNotFound) {
			return nil, errs.ErrNoActiveLock
		}
		return nil, err
	}
	if !lock.Active {
		return nil, errs.ErrNoActiveLock
	}

	startAt, endAt, kind, refresh, err := s.resolveWindow(window)
	if err != nil {
		return nil, err
	}

	return s.serializer.Do(ctx, reservationID, func(ctx context.Context) (*usecase.CredentialDescriptor, error) {
		return s.issueSerialized(ctx, reservationID, lock.DeviceID, kind, startAt, endAt, refresh)
	})
}

// resolveWindow computes the credential window and kind from the request
func (s *Service) resolveWindow(window usecase.CredentialWindow) (time.Time, time.Time, entity.CredentialKind, bool, error) {
	if window.Explicit() {
		if window.StartAt.IsZero() || window.EndAt.IsZero() || !window.EndAt.After(window.StartAt) {
			return time.Time{}, time.Time{}, "", false, errs.ErrInvalidTimeWindow
		}
		return window.StartAt, window.EndAt, entity.KindForWindow(window.StartAt, window.EndAt), false, nil
	}

	minutes := window.WindowMinutes
	if minutes <= 0 {
		minutes = s.config.DefaultWindowMinutes
	}

	startAt := s.timeProvider.Now()
	endAt := startAt.Add(time.Duration(minutes) * time.Minute)
	return startAt, endAt, entity.KindOneTime, true, nil
}

// issueSerialized runs with the reservation's queue turn held. It takes the
// cross-instance lease, then performs invalidate-then-insert inside one
// database transaction.
func (s *Service) issueSerialized(
	ctx context.Context,
	reservationID uint64,
	deviceID string,
	kind entity.CredentialKind,
	startAt, endAt time.Time,
	refresh bool,
) (*usecase.CredentialDescriptor, error) {
	if err := s.leaseRepo.AcquireLease(ctx, reservationID, s.config.LeaseTTL); err != nil {
		return nil, err
	}
	defer func() {
		if err := s.leaseRepo.ReleaseLease(context.WithoutCancel(ctx), reservationID); err != nil {
			s.logger.Warn("Failed to release reservation lease", map[string]any{
				"reservation_id": reservationID,
				"error":          err.Error(),
			})
		}
	}()

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	ledger := s.uow.GetCredentialRepository(txCtx)

	previousPin := ""
	previous, err := ledger.LatestActive(txCtx, reservationID)
	if err != nil && !errors.Is(err, errs.ErrCredentialNotFound) {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}
	if previous != nil {
		previousPin = previous.Pin
	}

	invalidated, err := ledger.SoftInvalidateAll(txCtx, reservationID)
	if err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}
	if invalidated > 1 {
		// More than one active row means an older race already broke the
		// invariant; this issuance heals it.
		s.logger.Warn("Multiple active credentials invalidated", map[string]any{
			"reservation_id": reservationID,
			"count":          invalidated,
		})
	}

	rotation, err := rotateUntilChanged(
		ctx,
		previousPin,
		s.config.RotationAttempts,
		s.labelSalter(reservationID, refresh),
		func(ctx context.Context, label string) (*IssuedCredential, error) {
			return s.issuer.Issue(ctx, kind, deviceID, startAt, endAt, label)
		},
	)
	if err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}

	if rotation.Exhausted {
		// The previous credential is already superseded with nothing to
		// replace it; the invalidation is committed, not rolled back, so a
		// pin the renter already saw never comes back to life.
		if commitErr := s.uow.Commit(txCtx); commitErr != nil {
			s.logger.Error("Failed to commit invalidation after rotation exhaustion", map[string]any{
				"reservation_id": reservationID,
				"error":          commitErr.Error(),
			})
		}
		s.logger.Error("Pin rotation exhausted", map[string]any{
			"reservation_id": reservationID,
			"attempts":       rotation.Attempts,
		})
		return nil, errs.NewRotationError(reservationID, rotation.Attempts, rotation.Credential.Pin)
	}

	issued := rotation.Credential
	record, err := entity.NewCredential(
		reservationID,
		deviceID,
		issued.Pin,
		issued.ProviderCredentialID,
		kind,
		issued.Mock,
		startAt,
		endAt,
		s.timeProvider.Now(),
	)
	if err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}

	if err := ledger.Insert(txCtx, record); err != nil {
		_ = s.uow.Rollback(txCtx)
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	s.logger.Info("Credential issued", map[string]any{
		"reservation_id": reservationID,
		"device_id":      deviceID,
		"kind":           string(kind),
		"mock":           issued.Mock,
		"attempts":       rotation.Attempts,
		"start_at":       startAt,
		"end_at":         endAt,
	})

	return &usecase.CredentialDescriptor{
		ReservationID: reservationID,
		DeviceID:      deviceID,
		Pin:           issued.Pin,
		Kind:          kind,
		StartAt:       startAt,
		EndAt:         endAt,
		Mock:          issued.Mock,
		PreviousPin:   previousPin,
		Changed:       issued.Pin != previousPin,
	}, nil
}

// labelSalter builds the provider-visible access label for each attempt:
// timestamp plus attempt counter, per the rotation contract
func (s *Service) labelSalter(reservationID uint64, refresh bool) func(attempt int) string {
	tag := ""
	if refresh {
		tag = "refresh "
	}
	return func(attempt int) string {
		stamp := s.timeProvider.Now().UnixMilli()
		if attempt == 1 {
			return fmt.Sprintf("Reservation %d (%s%d)", reservationID, tag, stamp)
		}
		return fmt.Sprintf("Reservation %d (%s%d#%d)", reservationID, tag, stamp, attempt)
	}
}
