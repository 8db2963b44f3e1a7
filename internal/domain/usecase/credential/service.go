package credential

import (
	"net/http"
	"time"

	errs "github.com/vleky/trailer-access/internal/domain/error"
	coreport "github.com/vleky/trailer-access/internal/domain/port/core"
	"github.com/vleky/trailer-access/internal/domain/port/persistence"
	"github.com/vleky/trailer-access/internal/domain/port/usecase"
)

// Config tunes the orchestrator workflow
type Config struct {
	// DefaultWindowMinutes is the refresh-flow window when the caller sends
	// none. Matches the operator-facing PIN_WINDOW_MINUTES setting.
	DefaultWindowMinutes int
	// RotationAttempts caps the rotate-until-different loop
	RotationAttempts int
	// LeaseTTL bounds how long a crashed issuance can hold a reservation
	LeaseTTL time.Duration
}

// normalize fills unset fields with the documented defaults
func (c Config) normalize() Config {
	if c.DefaultWindowMinutes <= 0 {
		c.DefaultWindowMinutes = 5
	}
	if c.RotationAttempts <= 0 {
		c.RotationAttempts = 5
	}
	if c.LeaseTTL <= 0 {
		c.LeaseTTL = 30 * time.Second
	}
	return c
}

// Service composes registry, issuer and ledger into the issue/refresh/read
// workflow. All issuance for one reservation is serialized through an
// in-process queue plus a database lease.
type Service struct {
	registry     usecase.LockRegistry
	issuer       *Issuer
	uow          persistence.UnitOfWork
	credRepo     persistence.CredentialRepository
	leaseRepo    persistence.ReservationLeaseRepository
	serializer   *Serializer
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	config       Config
}

// NewService creates the credential orchestrator
func NewService(
	registry usecase.LockRegistry,
	issuer *Issuer,
	uow persistence.UnitOfWork,
	credRepo persistence.CredentialRepository,
	leaseRepo persistence.ReservationLeaseRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	config Config,
) *Service {
	return &Service{
		registry:     registry,
		issuer:       issuer,
		uow:          uow,
		credRepo:     credRepo,
		leaseRepo:    leaseRepo,
		serializer:   NewSerializer(logger),
		timeProvider: timeProvider,
		logger:       logger,
		config:       config.normalize(),
	}
}

// Shutdown drains in-flight issuances
func (s *Service) Shutdown() {
	s.serializer.Shutdown()
}

// HTTPStatus maps domain errors to the status codes of the HTTP surface
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errs.IsValidationError(err):
		return http.StatusBadRequest
	case errs.IsLockConflictError(err):
		return http.StatusConflict
	case errs.IsWindowError(err):
		return http.StatusForbidden
	case errs.IsNotFoundError(err):
		return http.StatusNotFound
	case errs.IsReservationBusyError(err):
		return http.StatusConflict
	default:
		// Rotation exhaustion, provider auth failures and database errors
		// are all server-side conditions.
		return http.StatusInternalServerError
	}
}
