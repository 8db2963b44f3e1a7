package lockreg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vleky/trailer-access/internal/domain/entity"
	errs "github.com/vleky/trailer-access/internal/domain/error"
	coreport "github.com/vleky/trailer-access/internal/domain/port/core"
	"github.com/vleky/trailer-access/internal/domain/port/persistence"
	"github.com/vleky/trailer-access/internal/domain/port/usecase"
)

// Registry owns the trailer-device binding. All lock rows are created,
// moved and deleted here; nothing else writes to the locks table.
type Registry struct {
	lockRepo     persistence.LockRepository
	trailerRepo  persistence.TrailerRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewRegistry creates a new lock registry
func NewRegistry(
	lockRepo persistence.LockRepository,
	trailerRepo persistence.TrailerRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) usecase.LockRegistry {
	return &Registry{
		lockRepo:     lockRepo,
		trailerRepo:  trailerRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Assign binds a device to a trailer. When the device already guards another
// trailer the call fails with a conflict unless force is set, in which case
// the device row is rebound and any lock previously on the target trailer is
// deleted, preserving the one-lock-per-trailer invariant.
func (r *Registry) Assign(ctx context.Context, req usecase.AssignLockRequest) (*usecase.AssignLockResult, error) {
	if req.TrailerID == 0 {
		return nil, errs.ErrInvalidTrailerID
	}

	deviceID := strings.TrimSpace(req.DeviceID)
	if deviceID == "" {
		return nil, errs.ErrInvalidDeviceID
	}

	provider := req.Provider
	if provider == "" {
		provider = entity.DefaultProvider
	}

	exists, err := r.trailerRepo.Exists(ctx, req.TrailerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		r.logger.Warn("Lock assignment to unknown trailer", map[string]any{
			"trailer_id": req.TrailerID,
		})
		return nil, errs.ErrTrailerNotFound
	}

	// Who holds this physical device right now?
	owner, err := r.lockRepo.GetByDevice(ctx, provider, deviceID)
	if err != nil && !errors.Is(err, errs.ErrLockNotFound) {
		return nil, err
	}

	if owner != nil && owner.TrailerID != req.TrailerID {
		if !req.Force {
			conflictName, nameErr := r.ownerName(ctx, owner.TrailerID)
			if nameErr != nil {
				return nil, nameErr
			}
			r.logger.Info("Lock assignment conflict", map[string]any{
				"trailer_id":      req.TrailerID,
				"provider":        provider,
				"device_id":       deviceID,
				"current_trailer": owner.TrailerID,
			})
			return nil, errs.NewLockConflictError(provider, deviceID, owner.TrailerID, conflictName)
		}
		return r.forceTransfer(ctx, owner, req, deviceID)
	}

	// Free device, or already ours: plain upsert keyed by trailer.
	lock, err := entity.NewLock(req.TrailerID, provider, deviceID, req.Name, req.Active, r.timeProvider)
	if err != nil {
		return nil, err
	}

	saved, err := r.lockRepo.Save(ctx, lock)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Lock assigned", map[string]any{
		"trailer_id": saved.TrailerID,
		"provider":   saved.Provider,
		"device_id":  saved.DeviceID,
		"active":     saved.Active,
	})

	return &usecase.AssignLockResult{Lock: saved, Moved: false}, nil
}

// forceTransfer rebinds an owned device onto the target trailer
func (r *Registry) forceTransfer(
	ctx context.Context,
	owner *entity.Lock,
	req usecase.AssignLockRequest,
	deviceID string,
) (*usecase.AssignLockResult, error) {
	fromTrailer := owner.TrailerID

	// The target trailer may already hold a different lock; drop it first so
	// the trailer_id uniqueness survives the rebind.
	deleted, err := r.lockRepo.DeleteByTrailerID(ctx, req.TrailerID)
	if err != nil {
		return nil, err
	}
	if deleted > 0 {
		r.logger.Info("Replaced existing lock during forced transfer", map[string]any{
			"trailer_id": req.TrailerID,
		})
	}

	owner.Rebind(req.TrailerID, req.Name, req.Active, r.timeProvider)
	if err := r.lockRepo.Update(ctx, owner); err != nil {
		return nil, err
	}

	r.logger.Info("Lock transferred", map[string]any{
		"device_id":    deviceID,
		"from_trailer": fromTrailer,
		"to_trailer":   req.TrailerID,
	})

	return &usecase.AssignLockResult{Lock: owner, Moved: true}, nil
}

// ownerName resolves the display name of the trailer currently holding a
// device so the conflict response can name it
func (r *Registry) ownerName(ctx context.Context, trailerID uint64) (string, error) {
	trailer, err := r.trailerRepo.GetByID(ctx, trailerID)
	if err != nil {
		if errors.Is(err, errs.ErrTrailerNotFound) {
			// Orphaned lock row; still a conflict, just nameless.
			return "", nil
		}
		return "", fmt.Errorf("resolving conflicting trailer: %w", err)
	}
	return trailer.Name, nil
}

// Get returns the lock bound to the trailer
func (r *Registry) Get(ctx context.Context, trailerID uint64) (*entity.Lock, error) {
	if trailerID == 0 {
		return nil, errs.ErrInvalidTrailerID
	}
	return r.lockRepo.GetByTrailerID(ctx, trailerID)
}

// Remove deletes the trailer's lock binding
func (r *Registry) Remove(ctx context.Context, trailerID uint64) (int64, error) {
	if trailerID == 0 {
		return 0, errs.ErrInvalidTrailerID
	}

	deleted, err := r.lockRepo.DeleteByTrailerID(ctx, trailerID)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		r.logger.Info("Lock removed", map[string]any{
			"trailer_id": trailerID,
		})
	}
	return deleted, nil
}
