package main

import (
	"context"
	"flag"
	"log"

	"github.com/alexivanou/weather-report-api/internal/config"
	"github.com/alexivanou/weather-report-api/internal/database"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	command := flag.String("command", "up", "migrate command: up, down or version")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if !cfg.Store.IsSQL() {
		logger.Fatal("Migrations require a SQL store; set STORE_TYPE to sqlite or postgres")
	}

	m, err := newMigrator(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize migrator", zap.Error(err))
	}

	switch *command {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		logger.Info("Migrations applied")
	case "down":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			logger.Fatal("Failed to roll back migrations", zap.Error(err))
		}
		logger.Info("Migrations rolled back")
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			logger.Fatal("Failed to read migration version", zap.Error(err))
		}
		logger.Info("Migration version", zap.Uint("version", uint(version)), zap.Bool("dirty", dirty))
	default:
		logger.Fatal("Unknown command", zap.String("command", *command))
	}
}

func newMigrator(cfg *config.Config) (*migrate.Migrate, error) {
	if cfg.Store.Type == config.StoreTypeSQLite {
		db, err := database.Connect(context.Background(), cfg.Store)
		if err != nil {
			return nil, err
		}
		driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
		if err != nil {
			return nil, err
		}
		return migrate.NewWithDatabaseInstance("file://migrations/sqlite", "sqlite3", driver)
	}
	return migrate.New("file://migrations/postgres", cfg.Store.DSN())
}
