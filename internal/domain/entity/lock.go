package entity

import (
	"strings"
	"time"

	errs "github.com/vleky/trailer-access/internal/domain/error"
	tport "github.com/vleky/trailer-access/internal/domain/port/core"
)

// DefaultProvider is used when an assignment request doesn't name one
const DefaultProvider = "igloohome"

// Lock binds one physical access-control device to one trailer
type Lock struct {
	ID        uint64
	TrailerID uint64    // trailer this device guards; unique across locks
	Provider  string    // lock vendor, e.g. "igloohome"
	DeviceID  string    // vendor device identifier; unique per provider
	Name      string    // optional human-readable label
	Active    bool      // inactive locks are kept but never issue credentials
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLock creates a lock binding with basic validation
func NewLock(trailerID uint64, provider, deviceID, name string, active bool, timeProvider tport.TimeProvider) (*Lock, error) {
	if trailerID == 0 {
		return nil, errs.ErrInvalidTrailerID
	}

	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, errs.ErrInvalidDeviceID
	}

	if provider == "" {
		provider = DefaultProvider
	}

	now := timeProvider.Now()
	return &Lock{
		TrailerID: trailerID,
		Provider:  provider,
		DeviceID:  deviceID,
		Name:      name,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SameDevice reports whether the lock refers to the given physical device
func (l *Lock) SameDevice(provider, deviceID string) bool {
	return l.Provider == provider && l.DeviceID == deviceID
}

// Rebind moves the device onto another trailer, refreshing label and state.
// Used by forced transfers; callers are responsible for conflict resolution.
func (l *Lock) Rebind(trailerID uint64, name string, active bool, timeProvider tport.TimeProvider) {
	l.TrailerID = trailerID
	l.Name = name
	l.Active = active
	l.UpdatedAt = timeProvider.Now()
}
