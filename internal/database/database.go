package database

import (
	"context"
	"fmt"

	"github.com/alexivanou/weather-report-api/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver for database/sql
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Connect creates a database connection for the SQL backends using sqlx
func Connect(ctx context.Context, cfg config.StoreConfig) (*sqlx.DB, error) {
	var driverName string

	switch cfg.Type {
	case config.StoreTypeSQLite:
		driverName = "sqlite3"
	case config.StoreTypePostgreSQL:
		driverName = "pgx"
	default:
		return nil, fmt.Errorf("store type %q is not backed by a database", cfg.Type)
	}

	db, err := sqlx.ConnectContext(ctx, driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Specific settings for SQLite to enable Foreign Keys
	if cfg.Type == config.StoreTypeSQLite {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return db, nil
}

// Migrate applies the schema migrations for the connected backend.
// sourceURL points at the dialect directory, e.g. "file://migrations/sqlite";
// tests pass a relative path to the repository root.
func Migrate(db *sqlx.DB, cfg config.StoreConfig, sourceURL string) error {
	var m *migrate.Migrate
	var err error

	if cfg.Type == config.StoreTypeSQLite {
		// Use the driver instance directly to avoid DSN parsing issues with
		// in-memory SQLite databases.
		driver, derr := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
		if derr != nil {
			return fmt.Errorf("could not create sqlite driver: %w", derr)
		}
		m, err = migrate.NewWithDatabaseInstance(sourceURL, "sqlite3", driver)
	} else {
		m, err = migrate.New(sourceURL, cfg.DSN())
	}
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
