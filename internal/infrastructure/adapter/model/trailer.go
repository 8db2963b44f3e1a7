package model

import (
	"time"
)

// Trailer represents the database model for trailers. Photos are stored as a
// JSON-encoded string array in photos_json, matching the admin UI contract.
type Trailer struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	Name           string    `gorm:"not null;size:255"`
	TotalWeightKg  *float64  `gorm:"column:total_weight_kg"`
	PayloadKg      *float64  `gorm:"column:payload_kg"`
	BedWidthM      *float64  `gorm:"column:bed_width_m"`
	BedLengthM     *float64  `gorm:"column:bed_length_m"`
	Cover          string    `gorm:"size:100"`
	Location       string    `gorm:"size:255"`
	Lat            *float64
	Lng            *float64
	PricePerDayCZK *float64  `gorm:"column:price_per_day_czk"`
	OwnerName      string    `gorm:"size:255"`
	Description    string    `gorm:"type:text"`
	PhotosJSON     string    `gorm:"column:photos_json;type:text"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName specifies the table name for Trailer
func (Trailer) TableName() string {
	return "trailers"
}
