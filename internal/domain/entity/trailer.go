package entity

import (
	"strings"
	"time"

	errs "github.com/vleky/trailer-access/internal/domain/error"
	tport "github.com/vleky/trailer-access/internal/domain/port/core"
)

// Trailer is the rental asset a lock can be bound to. The registry only needs
// identity and a display name, the remaining fields exist for the admin CRUD.
type Trailer struct {
	ID             uint64
	Name           string
	TotalWeightKg  *float64
	PayloadKg      *float64
	BedWidthM      *float64
	BedLengthM     *float64
	Cover          string
	Location       string
	Lat            *float64
	Lng            *float64
	PricePerDayCZK *float64
	OwnerName      string
	Description    string
	Photos         []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewTrailer creates a trailer with basic validation
func NewTrailer(name string, timeProvider tport.TimeProvider) (*Trailer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errs.ErrInvalidRequest
	}

	now := timeProvider.Now()
	return &Trailer{
		Name:      name,
		Photos:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
