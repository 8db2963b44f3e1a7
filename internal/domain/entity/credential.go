package entity

import (
	"fmt"
	"time"

	errs "github.com/vleky/trailer-access/internal/domain/error"
)

// CredentialKind is the closed set of provider credential types
type CredentialKind string

// Credential kinds. The provider exposes a separate endpoint per kind and
// each kind carries its own start/end alignment rules.
const (
	KindOneTime CredentialKind = "onetime"
	KindHourly  CredentialKind = "hourly"
	KindDaily   CredentialKind = "daily"
)

// IsValidCredentialKind validates if the kind is one of the closed variants
func IsValidCredentialKind(kind string) bool {
	switch CredentialKind(kind) {
	case KindOneTime, KindHourly, KindDaily:
		return true
	}
	return false
}

// WindowState classifies a credential's validity window against an instant
type WindowState int

const (
	// WindowValid means the instant falls inside [StartAt, EndAt)
	WindowValid WindowState = iota
	// WindowNotYetStarted means the instant is before StartAt
	WindowNotYetStarted
	// WindowExpired means the instant is at or after EndAt
	WindowExpired
)

// Credential is one issued PIN for a reservation. Superseded credentials are
// soft-invalidated (DeletedAt set), never removed, so the history of every
// code that ever opened a lock survives.
type Credential struct {
	ID                   uint64
	ReservationID        uint64
	DeviceID             string
	Pin                  string
	ProviderCredentialID string // provider-side id, empty for mock credentials
	Kind                 CredentialKind
	Mock                 bool // locally synthesized fallback, device will not open
	StartAt              time.Time
	EndAt                time.Time
	CreatedAt            time.Time
	DeletedAt            *time.Time
}

// NewCredential creates a credential record with basic validation
func NewCredential(
	reservationID uint64,
	deviceID string,
	pin string,
	providerCredentialID string,
	kind CredentialKind,
	mock bool,
	startAt, endAt time.Time,
	createdAt time.Time,
) (*Credential, error) {
	if reservationID == 0 {
		return nil, errs.ErrInvalidReservationID
	}
	if deviceID == "" {
		return nil, errs.ErrInvalidDeviceID
	}
	if !IsValidCredentialKind(string(kind)) {
		return nil, fmt.Errorf("%w: unknown credential kind %q", errs.ErrInvalidRequest, kind)
	}
	if !endAt.After(startAt) {
		return nil, errs.ErrInvalidTimeWindow
	}

	return &Credential{
		ReservationID:        reservationID,
		DeviceID:             deviceID,
		Pin:                  pin,
		ProviderCredentialID: providerCredentialID,
		Kind:                 kind,
		Mock:                 mock,
		StartAt:              startAt,
		EndAt:                endAt,
		CreatedAt:            createdAt,
	}, nil
}

// IsActive reports whether the credential has not been superseded
func (c *Credential) IsActive() bool {
	return c.DeletedAt == nil
}

// Invalidate marks the credential as superseded at the given instant
func (c *Credential) Invalidate(at time.Time) {
	c.DeletedAt = &at
}

// ValidateWindow classifies now against the credential's validity window.
// StartAt is inclusive, EndAt exclusive.
func ValidateWindow(c *Credential, now time.Time) WindowState {
	if now.Before(c.StartAt) {
		return WindowNotYetStarted
	}
	if !now.Before(c.EndAt) {
		return WindowExpired
	}
	return WindowValid
}

// WindowError translates a window state to the matching domain error,
// nil for a valid window.
func WindowError(state WindowState) error {
	switch state {
	case WindowNotYetStarted:
		return errs.ErrCredentialNotStarted
	case WindowExpired:
		return errs.ErrCredentialExpired
	}
	return nil
}

// KindForWindow picks the provider credential kind for an explicit window:
// a day or less maps to hourly, anything longer to daily. Refresh flows
// always use one-time codes and bypass this.
func KindForWindow(startAt, endAt time.Time) CredentialKind {
	if endAt.Sub(startAt) <= 24*time.Hour {
		return KindHourly
	}
	return KindDaily
}
