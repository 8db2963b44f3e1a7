package migration

import (
	coreport "github.com/vleky/trailer-access/internal/domain/port/core"
	"gorm.io/gorm"
)

// IndexManager manages PostgreSQL-specific indexes beyond what GORM tags
// can express
type IndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewIndexManager creates a new index manager
func NewIndexManager(db *gorm.DB, logger coreport.Logger) *IndexManager {
	return &IndexManager{
		db:     db,
		logger: logger,
	}
}

// CreateIndexes creates the hand-written PostgreSQL indexes
func (m *IndexManager) CreateIndexes() error {
	m.logger.Info("Creating PostgreSQL indexes", nil)

	// At most one active credential per reservation. This is the database
	// backstop behind the invalidate-then-insert flow.
	if err := m.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_credentials_reservation_active
		ON credentials (reservation_id)
		WHERE deleted_at IS NULL
	`).Error; err != nil {
		m.logger.Error("Failed to create active credential unique index", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// Speeds up the active lookup which always filters on deleted_at and
	// orders by id
	if err := m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_credentials_reservation_id_desc
		ON credentials (reservation_id, id DESC)
		WHERE deleted_at IS NULL
	`).Error; err != nil {
		m.logger.Error("Failed to create credential lookup index", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// Lease cleanup scans by expiry
	if err := m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservation_leases_expires_at
		ON reservation_leases (expires_at)
	`).Error; err != nil {
		m.logger.Error("Failed to create lease expiry index", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	// BRIN suits the append-only credential ledger
	if err := m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_credentials_created_at_brin
		ON credentials USING BRIN (created_at)
		WITH (pages_per_range = 32)
	`).Error; err != nil {
		m.logger.Error("Failed to create BRIN index on credentials.created_at", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	m.logger.Info("PostgreSQL indexes created successfully", nil)
	return nil
}
