package usecase

import (
	"context"
	"time"

	"github.com/vleky/trailer-access/internal/domain/entity"
)

// CredentialWindow describes the requested validity window. Creation flows
// supply explicit instants; refresh flows leave them zero and rely on
// WindowMinutes from "now".
type CredentialWindow struct {
	StartAt       time.Time
	EndAt         time.Time
	WindowMinutes int // used when StartAt/EndAt are zero; 0 means the configured default
}

// Explicit reports whether the caller supplied a concrete [start, end) range
func (w CredentialWindow) Explicit() bool {
	return !w.StartAt.IsZero() || !w.EndAt.IsZero()
}

// CredentialDescriptor is the full issued-credential view returned to callers
type CredentialDescriptor struct {
	ReservationID uint64                `json:"reservationId"`
	DeviceID      string                `json:"deviceId"`
	Pin           string                `json:"pin"`
	Kind          entity.CredentialKind `json:"type"`
	StartAt       time.Time             `json:"startAt"`
	EndAt         time.Time             `json:"endAt"`
	Mock          bool                  `json:"mock,omitempty"`
	// PreviousPin is the value the new pin had to rotate away from, empty on
	// first issuance
	PreviousPin string `json:"previousPin,omitempty"`
	// Changed is false only when a degraded (mock) issuance happened to
	// repeat the previous pin
	Changed bool `json:"changed"`
}

// CredentialOrchestrator composes registry, issuer and ledger into the
// issue/refresh/read workflow
type CredentialOrchestrator interface {
	// IssueOrRefresh invalidates the reservation's active credential and
	// issues a fresh one against the trailer's active lock
	IssueOrRefresh(ctx context.Context, reservationID, trailerID uint64, window CredentialWindow) (*CredentialDescriptor, error)

	// ReadActive returns the reservation's current credential when its
	// window is open
	ReadActive(ctx context.Context, reservationID uint64) (*CredentialDescriptor, error)
}
