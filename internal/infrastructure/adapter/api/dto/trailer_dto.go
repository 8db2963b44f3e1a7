package dto

import (
	"time"

	"github.com/vleky/trailer-access/internal/domain/entity"
)

// TrailerRequest represents the API request for creating or updating a
// trailer. Pointer fields distinguish "absent" from "zero" on updates.
type TrailerRequest struct {
	Name           string   `json:"name"`
	TotalWeightKg  *float64 `json:"total_weight_kg"`
	PayloadKg      *float64 `json:"payload_kg"`
	BedWidthM      *float64 `json:"bed_width_m"`
	BedLengthM     *float64 `json:"bed_length_m"`
	Cover          *string  `json:"cover"`
	Location       *string  `json:"location"`
	Lat            *float64 `json:"lat"`
	Lng            *float64 `json:"lng"`
	PricePerDayCZK *float64 `json:"price_per_day_czk"`
	OwnerName      *string  `json:"owner_name"`
	Description    *string  `json:"description"`
	Photos         []string `json:"photos"`
}

// TrailerResponse represents a trailer in API responses
type TrailerResponse struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	TotalWeightKg  *float64  `json:"total_weight_kg,omitempty"`
	PayloadKg      *float64  `json:"payload_kg,omitempty"`
	BedWidthM      *float64  `json:"bed_width_m,omitempty"`
	BedLengthM     *float64  `json:"bed_length_m,omitempty"`
	Cover          string    `json:"cover,omitempty"`
	Location       string    `json:"location,omitempty"`
	Lat            *float64  `json:"lat,omitempty"`
	Lng            *float64  `json:"lng,omitempty"`
	PricePerDayCZK *float64  `json:"price_per_day_czk,omitempty"`
	OwnerName      string    `json:"owner_name,omitempty"`
	Description    string    `json:"description,omitempty"`
	Photos         []string  `json:"photos"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewTrailerResponse maps a trailer entity to its API shape
func NewTrailerResponse(t *entity.Trailer) TrailerResponse {
	photos := t.Photos
	if photos == nil {
		photos = []string{}
	}
	return TrailerResponse{
		ID:             t.ID,
		Name:           t.Name,
		TotalWeightKg:  t.TotalWeightKg,
		PayloadKg:      t.PayloadKg,
		BedWidthM:      t.BedWidthM,
		BedLengthM:     t.BedLengthM,
		Cover:          t.Cover,
		Location:       t.Location,
		Lat:            t.Lat,
		Lng:            t.Lng,
		PricePerDayCZK: t.PricePerDayCZK,
		OwnerName:      t.OwnerName,
		Description:    t.Description,
		Photos:         photos,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
