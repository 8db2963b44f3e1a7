package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidTrailerID     = 4001
	CodeInvalidReservationID = 4002
	CodeInvalidDeviceID      = 4003
	CodeInvalidTimeWindow    = 4004
	CodeTrailerNotFound      = 4040
	CodeLockNotFound         = 4041
	CodeNoActiveLock         = 4042
	CodeCredentialNotFound   = 4043
	CodeCredentialNotStarted = 4030
	CodeCredentialExpired    = 4031
	CodeLockAlreadyAssigned  = 4090

	// 5xxx - Server errors
	CodeInternalServer  = 5000
	CodePinNotRotated   = 5001
	CodeProviderFailure = 5020
	CodeProviderAuth    = 5021
	CodeDatabaseFailure = 5030
	CodeReservationBusy = 5031
)

// Base error types
var (
	// ErrInvalidTrailerID is returned when the trailer ID is not a positive integer
	ErrInvalidTrailerID = errors.New("trailer ID must be positive")

	// ErrInvalidReservationID is returned when the reservation ID is not a positive integer
	ErrInvalidReservationID = errors.New("reservation ID must be positive")

	// ErrInvalidDeviceID is returned when the device ID is empty
	ErrInvalidDeviceID = errors.New("device ID cannot be empty")

	// ErrInvalidTimeWindow is returned when a credential window is missing or inverted
	ErrInvalidTimeWindow = errors.New("credential window end must be after start")

	// ErrTrailerNotFound is returned when the requested trailer doesn't exist
	ErrTrailerNotFound = errors.New("trailer not found")

	// ErrLockNotFound is returned when no lock is assigned to the trailer
	ErrLockNotFound = errors.New("no lock assigned to trailer")

	// ErrNoActiveLock is returned when the trailer has no active lock for issuance
	ErrNoActiveLock = errors.New("no active lock assigned to trailer")

	// ErrLockAlreadyAssigned is returned when the device is bound to another trailer
	ErrLockAlreadyAssigned = errors.New("device already assigned to another trailer")

	// ErrCredentialNotFound is returned when a reservation has no active credential
	ErrCredentialNotFound = errors.New("no credential issued for reservation")

	// ErrCredentialNotStarted is returned when the credential window hasn't opened yet
	ErrCredentialNotStarted = errors.New("credential is not valid yet")

	// ErrCredentialExpired is returned when the credential window has closed
	ErrCredentialExpired = errors.New("credential has expired")

	// ErrPinNotRotated is returned when rotation retries exhausted without a new pin value
	ErrPinNotRotated = errors.New("provider kept returning the previous pin")

	// ErrProviderUnavailable is returned when the lock provider cannot be reached
	ErrProviderUnavailable = errors.New("lock provider unavailable")

	// ErrProviderAuth is returned when the client-credentials exchange fails
	ErrProviderAuth = errors.New("lock provider authentication failed")

	// ErrReservationBusy is returned when another issuance holds the reservation lease
	ErrReservationBusy = errors.New("reservation is locked by another issuance")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidTrailerID):
		return CodeInvalidTrailerID
	case errors.Is(err, ErrInvalidReservationID):
		return CodeInvalidReservationID
	case errors.Is(err, ErrInvalidDeviceID):
		return CodeInvalidDeviceID
	case errors.Is(err, ErrInvalidTimeWindow):
		return CodeInvalidTimeWindow
	case errors.Is(err, ErrTrailerNotFound):
		return CodeTrailerNotFound
	case errors.Is(err, ErrLockNotFound):
		return CodeLockNotFound
	case errors.Is(err, ErrNoActiveLock):
		return CodeNoActiveLock
	case errors.Is(err, ErrCredentialNotFound):
		return CodeCredentialNotFound
	case errors.Is(err, ErrCredentialNotStarted):
		return CodeCredentialNotStarted
	case errors.Is(err, ErrCredentialExpired):
		return CodeCredentialExpired
	case errors.Is(err, ErrLockAlreadyAssigned):
		return CodeLockAlreadyAssigned
	case errors.Is(err, ErrPinNotRotated):
		return CodePinNotRotated
	case errors.Is(err, ErrProviderAuth):
		return CodeProviderAuth
	case errors.Is(err, ErrProviderUnavailable):
		return CodeProviderFailure
	case errors.Is(err, ErrReservationBusy):
		return CodeReservationBusy
	case errors.Is(err, ErrDatabaseConnection):
		return CodeDatabaseFailure
	default:
		return CodeInternalServer
	}
}

// LockConflictError reports that a device is already bound to a different
// trailer, carrying enough context for the caller to offer a forced transfer.
type LockConflictError struct {
	Provider           string
	DeviceID           string
	CurrentTrailerID   uint64
	CurrentTrailerName string
}

// Error implements the error interface
func (e *LockConflictError) Error() string {
	return fmt.Sprintf("device %s/%s is already assigned to trailer %d (%s)",
		e.Provider, e.DeviceID, e.CurrentTrailerID, e.CurrentTrailerName)
}

// Is checks if the target error is an ErrLockAlreadyAssigned
func (e *LockConflictError) Is(target error) bool {
	return target == ErrLockAlreadyAssigned
}

// LogFields returns a map of fields for structured logging
func (e *LockConflictError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "lock_conflict",
		"provider":        e.Provider,
		"device_id":       e.DeviceID,
		"current_trailer": e.CurrentTrailerID,
		"error_code":      CodeLockAlreadyAssigned,
	}
}

// NewLockConflictError creates a conflict error naming the current owner
func NewLockConflictError(provider, deviceID string, trailerID uint64, trailerName string) error {
	return &LockConflictError{
		Provider:           provider,
		DeviceID:           deviceID,
		CurrentTrailerID:   trailerID,
		CurrentTrailerName: trailerName,
	}
}

// ProviderError wraps a failed call to the external lock provider. Payload
// keeps the raw upstream diagnostic body for operators.
type ProviderError struct {
	Operation  string
	DeviceID   string
	StatusCode int
	Payload    string
	Err        error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed for device %s (status %d): %v",
		e.Operation, e.DeviceID, e.StatusCode, e.Err)
}

// Unwrap returns the underlying error
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *ProviderError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "provider_error",
		"operation":   e.Operation,
		"device_id":   e.DeviceID,
		"status_code": e.StatusCode,
		"payload":     e.Payload,
		"error":       e.Err.Error(),
		"error_code":  ErrorCode(e.Err),
	}
}

// NewProviderError creates a detailed provider error
func NewProviderError(operation, deviceID string, statusCode int, payload string, err error) error {
	if err == nil {
		err = ErrProviderUnavailable
	}
	return &ProviderError{
		Operation:  operation,
		DeviceID:   deviceID,
		StatusCode: statusCode,
		Payload:    payload,
		Err:        err,
	}
}

// RotationError reports that the bounded rotation loop exhausted its attempts
// without the provider producing a pin different from the previous one.
type RotationError struct {
	ReservationID uint64
	Attempts      int
	Pin           string
}

// Error implements the error interface
func (e *RotationError) Error() string {
	return fmt.Sprintf("pin for reservation %d unchanged after %d attempts",
		e.ReservationID, e.Attempts)
}

// Is checks if the target error is an ErrPinNotRotated
func (e *RotationError) Is(target error) bool {
	return target == ErrPinNotRotated
}

// LogFields returns a map of fields for structured logging
func (e *RotationError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "pin_not_rotated",
		"reservation_id": e.ReservationID,
		"attempts":       e.Attempts,
		"error_code":     CodePinNotRotated,
	}
}

// NewRotationError creates a new rotation exhaustion error
func NewRotationError(reservationID uint64, attempts int, pin string) error {
	return &RotationError{
		ReservationID: reservationID,
		Attempts:      attempts,
		Pin:           pin,
	}
}

// IsLockConflictError checks if the error is a lock assignment conflict
func IsLockConflictError(err error) bool {
	return errors.Is(err, ErrLockAlreadyAssigned)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTrailerNotFound) ||
		errors.Is(err, ErrLockNotFound) ||
		errors.Is(err, ErrNoActiveLock) ||
		errors.Is(err, ErrCredentialNotFound)
}

// IsWindowError checks if the error is a credential window rejection
func IsWindowError(err error) bool {
	return errors.Is(err, ErrCredentialNotStarted) ||
		errors.Is(err, ErrCredentialExpired)
}

// IsValidationError checks if the error should be rejected before side effects
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidTrailerID) ||
		errors.Is(err, ErrInvalidReservationID) ||
		errors.Is(err, ErrInvalidDeviceID) ||
		errors.Is(err, ErrInvalidTimeWindow) ||
		errors.Is(err, ErrInvalidRequest)
}

// IsProviderError checks if the error came from the external lock provider
func IsProviderError(err error) bool {
	return errors.Is(err, ErrProviderUnavailable) || errors.Is(err, ErrProviderAuth)
}

// IsRotationExhaustedError checks if the error is a rotation exhaustion
func IsRotationExhaustedError(err error) bool {
	return errors.Is(err, ErrPinNotRotated)
}

// IsReservationBusyError checks if the error is lease contention
func IsReservationBusyError(err error) bool {
	return errors.Is(err, ErrReservationBusy)
}
