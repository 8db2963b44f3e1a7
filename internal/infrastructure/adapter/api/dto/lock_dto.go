package dto

import (
	"time"

	"github.com/vleky/trailer-access/internal/domain/entity"
)

// AssignLockRequest represents the API request for binding a device to a
// trailer. Active defaults to true when omitted.
type AssignLockRequest struct {
	Provider string `json:"provider"`
	DeviceID string `json:"device_id" binding:"required"`
	Name     string `json:"name"`
	Active   *bool  `json:"active"`
	Force    bool   `json:"force"`
}

// LockResponse represents a lock binding in API responses
type LockResponse struct {
	ID        uint64    `json:"id"`
	TrailerID uint64    `json:"trailer_id"`
	Provider  string    `json:"provider"`
	DeviceID  string    `json:"device_id"`
	Name      string    `json:"name,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AssignLockResponse wraps the saved lock plus whether a forced transfer
// moved the device off another trailer
type AssignLockResponse struct {
	OK    bool         `json:"ok"`
	Lock  LockResponse `json:"lock"`
	Moved bool         `json:"moved"`
}

// DeleteLockResponse reports how many bindings a removal deleted
type DeleteLockResponse struct {
	OK      bool  `json:"ok"`
	Deleted int64 `json:"deleted"`
}

// NewLockResponse maps a lock entity to its API shape
func NewLockResponse(lock *entity.Lock) LockResponse {
	return LockResponse{
		ID:        lock.ID,
		TrailerID: lock.TrailerID,
		Provider:  lock.Provider,
		DeviceID:  lock.DeviceID,
		Name:      lock.Name,
		Active:    lock.Active,
		CreatedAt: lock.CreatedAt,
		UpdatedAt: lock.UpdatedAt,
	}
}
