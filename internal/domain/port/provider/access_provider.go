package provider

import (
	"context"
	"time"
)

// Device is one physical lock known to the provider account
type Device struct {
	DeviceID   string `json:"deviceId"`
	DeviceName string `json:"deviceName,omitempty"`
	Type       string `json:"type,omitempty"`
	Battery    int    `json:"batteryLevel,omitempty"`
}

// CredentialResult is what the provider returns for a minted PIN
type CredentialResult struct {
	Pin   string // the numeric access code
	PinID string // provider-side credential id, may be empty
}

// OneTimeRequest asks for a single-use PIN. Start is a raw instant; the
// adapter aligns it to the hour boundary the provider's date contract demands.
type OneTimeRequest struct {
	DeviceID   string
	Start      time.Time
	AccessName string
	Variance   int // 1..10, perturbs the generated code
}

// HourlyRequest asks for a PIN valid between two instants. The adapter floors
// the start and ceils the end to hour boundaries.
type HourlyRequest struct {
	DeviceID   string
	Start      time.Time
	End        time.Time
	AccessName string
	Variance   int
}

// DailyRequest asks for a PIN valid from the start of the given day
type DailyRequest struct {
	DeviceID   string
	Start      time.Time
	AccessName string
	Variance   int
}

// AccessProvider is the external lock-device service that mints PINs.
// Implementations handle authentication and the provider's date formatting;
// every call must be bounded by a timeout.
type AccessProvider interface {
	// ListDevices returns the devices registered to the account
	//
	// Possible errors:
	// - ErrProviderAuth: if the token exchange fails
	// - ErrProviderUnavailable: on network errors, timeouts or non-2xx
	ListDevices(ctx context.Context) ([]Device, error)

	// CreateOneTimePin mints a single-use PIN
	CreateOneTimePin(ctx context.Context, req OneTimeRequest) (*CredentialResult, error)

	// CreateHourlyPin mints an hourly-window PIN
	CreateHourlyPin(ctx context.Context, req HourlyRequest) (*CredentialResult, error)

	// CreateDailyPin mints a daily PIN
	CreateDailyPin(ctx context.Context, req DailyRequest) (*CredentialResult, error)
}
