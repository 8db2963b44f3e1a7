package model

import (
	"time"
)

// Credential represents the database model for the issued-PIN ledger.
// Rows are appended and soft-invalidated, never removed; the partial unique
// index keeping at most one row per reservation with deleted_at null lives in
// the migration package (GORM tags can't express the WHERE clause).
type Credential struct {
	ID                   uint64    `gorm:"primaryKey;autoIncrement"`
	ReservationID        uint64    `gorm:"not null;index"`
	DeviceID             string    `gorm:"not null;size:255"`
	Pin                  string    `gorm:"not null;size:32"`
	ProviderCredentialID string    `gorm:"size:255"`
	Kind                 string    `gorm:"not null;size:20"`
	Mock                 bool      `gorm:"not null;default:false"`
	StartAt              time.Time `gorm:"not null"`
	EndAt                time.Time `gorm:"not null"`
	CreatedAt            time.Time `gorm:"not null"`
	DeletedAt            *time.Time
}

// TableName specifies the table name for Credential
func (Credential) TableName() string {
	return "credentials"
}
