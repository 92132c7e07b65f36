package main

import (
	"context"
	"log"

	"github.com/alexivanou/weather-report-api/internal/config"
	"github.com/alexivanou/weather-report-api/internal/database"
	"github.com/alexivanou/weather-report-api/internal/repository"
	"github.com/alexivanou/weather-report-api/internal/seed"
	"go.uber.org/zap"
)

func main() {
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
		logger.Fatal("Seeding a memory store is pointless; set STORE_TYPE to sqlite or postgres")
	}

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.Store)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	sourceURL := "file://migrations/postgres"
	if cfg.Store.Type == config.StoreTypeSQLite {
		sourceURL = "file://migrations/sqlite"
	}
	if err := database.Migrate(db, cfg.Store, sourceURL); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewSQLRepositories(db)
	if err := seed.Run(ctx, repos, logger); err != nil {
		logger.Fatal("Failed to seed data", zap.Error(err))
	}

	logger.Info("Seeding completed")
}
