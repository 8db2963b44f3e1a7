package trailers

import (
	"context"
	"strings"

	"github.com/vleky/trailer-access/internal/domain/entity"
	errs "github.com/vleky/trailer-access/internal/domain/error"
	coreport "github.com/vleky/trailer-access/internal/domain/port/core"
	"github.com/vleky/trailer-access/internal/domain/port/persistence"
)

// Service backs the admin trailer CRUD. The lock registry and credential
// orchestrator only lean on it indirectly, through TrailerRepository.
type Service struct {
	repo         persistence.TrailerRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a trailer service
func NewService(repo persistence.TrailerRepository, timeProvider coreport.TimeProvider, logger coreport.Logger) *Service {
	return &Service{
		repo:         repo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// List returns all trailers, newest first
func (s *Service) List(ctx context.Context) ([]*entity.Trailer, error) {
	return s.repo.List(ctx)
}

// Get retrieves one trailer
func (s *Service) Get(ctx context.Context, id uint64) (*entity.Trailer, error) {
	if id == 0 {
		return nil, errs.ErrInvalidTrailerID
	}
	return s.repo.GetByID(ctx, id)
}

// Create validates and stores a new trailer
func (s *Service) Create(ctx context.Context, trailer *entity.Trailer) (*entity.Trailer, error) {
	if strings.TrimSpace(trailer.Name) == "" {
		return nil, errs.ErrInvalidRequest
	}

	now := s.timeProvider.Now()
	trailer.CreatedAt = now
	trailer.UpdatedAt = now
	if trailer.Photos == nil {
		trailer.Photos = []string{}
	}

	if err := s.repo.Create(ctx, trailer); err != nil {
		return nil, err
	}

	s.logger.Info("Trailer created", map[string]any{
		"trailer_id": trailer.ID,
		"name":       trailer.Name,
	})
	return trailer, nil
}

// Update applies a partial update to an existing trailer
func (s *Service) Update(ctx context.Context, id uint64, patch func(*entity.Trailer)) (*entity.Trailer, error) {
	if id == 0 {
		return nil, errs.ErrInvalidTrailerID
	}

	trailer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch(trailer)
	trailer.UpdatedAt = s.timeProvider.Now()

	if err := s.repo.Update(ctx, trailer); err != nil {
		return nil, err
	}
	return trailer, nil
}

// Delete removes a trailer, returning rows deleted
func (s *Service) Delete(ctx context.Context, id uint64) (int64, error) {
	if id == 0 {
		return 0, errs.ErrInvalidTrailerID
	}
	return s.repo.Delete(ctx, id)
}
