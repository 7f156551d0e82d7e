package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AmpolStack/AccessControlPlatform/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches for the
// constraints GORM cannot express (partial unique indexes backing the
// single-open-session invariants).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations performs AutoMigrate plus schema patches. Exposed separately
// so integration tests can migrate a containerized database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Establishment{},
		&model.User{},
		&model.AccessRecord{},
		&model.EstablishmentOpening{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate
// cannot handle on its own. The two partial unique indexes are the database
// half of the open-session invariants: the services enforce them inside
// locked transactions, and these indexes reject any write that slips past.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// at most one open access record per user
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uidx_access_records_open_user') THEN
		    CREATE UNIQUE INDEX uidx_access_records_open_user
		        ON access_records (user_id)
		        WHERE exit_at IS NULL;
		  END IF;
		END $$`,
		// at most one open opening per establishment
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uidx_openings_open_establishment') THEN
		    CREATE UNIQUE INDEX uidx_openings_open_establishment
		        ON establishment_openings (establishment_id)
		        WHERE closed_at IS NULL;
		  END IF;
		END $$`,
		// entry listings and occupancy counts both filter on these
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_access_records_open_establishment') THEN
		    CREATE INDEX idx_access_records_open_establishment
		        ON access_records (establishment_id)
		        WHERE exit_at IS NULL;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
