package dto

// ErrorResponse represents a standardized error response for the API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ConflictTrailer names the trailer currently holding a contested device
type ConflictTrailer struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// LockConflictResponse is the 409 body for an assignment hitting a device
// already bound elsewhere. The caller resubmits with force=true to transfer.
type LockConflictResponse struct {
	Error          string          `json:"error"`
	Provider       string          `json:"provider"`
	DeviceID       string          `json:"device_id"`
	CurrentTrailer ConflictTrailer `json:"currentTrailer"`
}
