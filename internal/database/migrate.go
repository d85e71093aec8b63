package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

// Migrate brings the database schema up to the newest bundled migration.
func Migrate(db *sql.DB, log *logrus.Logger) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(log)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Version returns the schema version currently applied to the database.
func Version(db *sql.DB) (int64, error) {
	return goose.GetDBVersion(db)
}

// LatestVersion returns the newest migration version bundled with the binary.
func LatestVersion() (int64, error) {
	goose.SetBaseFS(embedMigrations)

	migrations, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to collect migrations: %w", err)
	}
	last, err := migrations.Last()
	if err != nil {
		return 0, fmt.Errorf("failed to find last migration: %w", err)
	}
	return last.Version, nil
}
