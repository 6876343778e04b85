package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file" // File source driver
)

// MigrationConfig holds configuration for running migrations.
type MigrationConfig struct {
	// MigrationsPath is the migrations directory in file:// URL format
	MigrationsPath string
	// DatabaseName is used by golang-migrate for internal tracking
	DatabaseName string
}

// DefaultMigrationConfig returns sensible defaults for migration configuration.
func DefaultMigrationConfig(migrationsPath string) MigrationConfig {
	return MigrationConfig{
		MigrationsPath: migrationsPath,
		DatabaseName:   "main",
	}
}

// MigrateUp applies all pending up migrations. A database with nothing
// pending is not an error (migrate.ErrNoChange is handled gracefully).
//
// IMPORTANT: golang-migrate takes ownership of the connection it is given
// and closes it when complete. Use MigrateUpFromPath unless you are
// deliberately handing a connection over.
func MigrateUp(db *sql.DB, migrationsPath string) error {
	m, err := newMigrator(db, DefaultMigrationConfig(migrationsPath))
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// MigrateUpFromPath applies all pending migrations using a database path,
// managing its own connection lifecycle.
//
// Example:
//
//	err := MigrateUpFromPath("/path/to/index.sqlite", "file://db/migrations")
func MigrateUpFromPath(dbPath, migrationsPath string) error {
	conn, err := NewSQLiteConnectionWithDefaults(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// MigrateUp closes conn via the migrator.
	return MigrateUp(conn, migrationsPath)
}

// newMigrator wires the sqlite driver and file source into a migrator.
func newMigrator(db *sql.DB, config MigrationConfig) (*migrate.Migrate, error) {
	if db == nil {
		return nil, errors.New("database connection is required")
	}
	if config.MigrationsPath == "" {
		return nil, errors.New("migrations path is required")
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{
		DatabaseName: config.DatabaseName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(config.MigrationsPath, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
