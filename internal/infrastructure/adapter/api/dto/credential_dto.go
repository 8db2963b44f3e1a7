package dto

import (
	"time"

	"github.com/vleky/trailer-access/internal/domain/port/usecase"
)

// RefreshPinRequest is the body of POST /api/reservations/:id/refreshPin.
// The refresh flow always issues a short one-time window from "now".
type RefreshPinRequest struct {
	TrailerID     uint64 `json:"trailerId" binding:"required"`
	WindowMinutes int    `json:"windowMinutes"`
}

// CreatePinRequest is the body of POST /api/reservations/createPin. StartAt
// and EndAt are optional together; when absent the default window applies.
type CreatePinRequest struct {
	ReservationID uint64     `json:"reservationId" binding:"required"`
	TrailerID     uint64     `json:"trailerId" binding:"required"`
	StartAt       *time.Time `json:"startAt"`
	EndAt         *time.Time `json:"endAt"`
}

// CredentialResponse represents an issued credential in API responses
type CredentialResponse struct {
	OK            bool      `json:"ok"`
	ReservationID uint64    `json:"reservationId"`
	DeviceID      string    `json:"deviceId"`
	Pin           string    `json:"pin"`
	Type          string    `json:"type"`
	StartAt       time.Time `json:"startAt"`
	EndAt         time.Time `json:"endAt"`
	Mock          bool      `json:"mock,omitempty"`
	PreviousPin   string    `json:"previousPin,omitempty"`
	Changed       bool      `json:"changed"`
}

// ActivePinResponse is the read-path view, without rotation bookkeeping
type ActivePinResponse struct {
	ReservationID uint64    `json:"reservationId"`
	DeviceID      string    `json:"deviceId"`
	Pin           string    `json:"pin"`
	Type          string    `json:"type"`
	StartAt       time.Time `json:"startAt"`
	EndAt         time.Time `json:"endAt"`
	Mock          bool      `json:"mock,omitempty"`
}

// NewCredentialResponse maps an issued descriptor to its API shape
func NewCredentialResponse(d *usecase.CredentialDescriptor) CredentialResponse {
	return CredentialResponse{
		OK:            true,
		ReservationID: d.ReservationID,
		DeviceID:      d.DeviceID,
		Pin:           d.Pin,
		Type:          string(d.Kind),
		StartAt:       d.StartAt,
		EndAt:         d.EndAt,
		Mock:          d.Mock,
		PreviousPin:   d.PreviousPin,
		Changed:       d.Changed,
	}
}

// NewActivePinResponse maps a read-path descriptor to its API shape
func NewActivePinResponse(d *usecase.CredentialDescriptor) ActivePinResponse {
	return ActivePinResponse{
		ReservationID: d.ReservationID,
		DeviceID:      d.DeviceID,
		Pin:           d.Pin,
		Type:          string(d.Kind),
		StartAt:       d.StartAt,
		EndAt:         d.EndAt,
		Mock:          d.Mock,
	}
}
