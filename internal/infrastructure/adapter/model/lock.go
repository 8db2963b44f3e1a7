package model

import (
	"time"
)

// Lock represents the database model for trailer-device bindings
type Lock struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	TrailerID uint64    `gorm:"not null;uniqueIndex"`
	Provider  string    `gorm:"not null;size:50;uniqueIndex:idx_locks_provider_device"`
	DeviceID  string    `gorm:"not null;size:255;uniqueIndex:idx_locks_provider_device"`
	Name      string    `gorm:"size:255"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Trailer Trailer `gorm:"foreignKey:TrailerID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Lock
func (Lock) TableName() string {
	return "locks"
}
