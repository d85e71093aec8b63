package service

import (
	"database/sql"
	"fmt"

	"github.com/acastel/ytm-tracker/internal/database"
	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion returns application and schema version information, including
// whether the database is behind the migrations bundled with this binary.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	current, err := database.Version(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to read database version: %w", err)
	}
	latest, err := database.LatestVersion()
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to read bundled migration version: %w", err)
	}

	info := model.VersionInfo{
		AppVersion:    version.Version,
		SchemaVersion: current,
		Features: map[string]bool{
			"scheduler": true,
			"dashboard": true,
		},
		MigrationNeeded: current < latest,
	}
	if info.MigrationNeeded {
		info.MigrationMessage = fmt.Sprintf("database schema %d is behind bundled version %d", current, latest)
	}

	return info, nil
}
