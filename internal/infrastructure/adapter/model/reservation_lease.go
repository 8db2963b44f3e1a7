package model

import (
	"time"
)

// ReservationLease serializes credential issuance per reservation across
// service instances
type ReservationLease struct {
	ReservationID uint64    `gorm:"primaryKey;not null"`
	LockedAt      time.Time `gorm:"not null"`
	ExpiresAt     time.Time `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for ReservationLease
func (ReservationLease) TableName() string {
	return "reservation_leases"
}
