package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/weather-report-api/internal/api"
	"github.com/alexivanou/weather-report-api/internal/config"
	"github.com/alexivanou/weather-report-api/internal/database"
	"github.com/alexivanou/weather-report-api/internal/repository"
	"github.com/alexivanou/weather-report-api/internal/seed"
	"github.com/alexivanou/weather-report-api/internal/service"
	"github.com/alexivanou/weather-report-api/internal/stats"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	var repos *repository.Container
	if cfg.Store.IsSQL() {
		db, err := database.Connect(ctx, cfg.Store)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Fatal("Failed to ping database", zap.Error(err))
		}
		logger.Info("Connected to database", zap.String("type", string(cfg.Store.Type)))

		if err := database.Migrate(db, cfg.Store, migrationSource(cfg)); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}

		repos = repository.NewSQLRepositories(db)
	} else {
		logger.Info("Using in-memory store")
		repos = repository.NewMemoryRepositories()
	}

	if cfg.SeedOnStart {
		isEmpty, err := seed.IsEmpty(ctx, repos)
		if err != nil {
			logger.Warn("Failed to check if store is empty", zap.Error(err))
		} else if isEmpty {
			if err := seed.Run(ctx, repos, logger); err != nil {
				logger.Fatal("Failed to seed sample data", zap.Error(err))
			}
		}
	}

	svc := service.NewWeatherService(repos, logger, clockwork.NewRealClock())
	statsCollector := stats.NewCollector(repos, cfg.Store.Type)
	router := api.NewRouter(svc, statsCollector, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func migrationSource(cfg *config.Config) string {
	if cfg.Store.Type == config.StoreTypeSQLite {
		return "file://migrations/sqlite"
	}
	return "file://migrations/postgres"
}
