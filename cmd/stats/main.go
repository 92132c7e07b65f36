package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/alexivanou/weather-report-api/internal/config"
	"github.com/alexivanou/weather-report-api/internal/database"
	"github.com/alexivanou/weather-report-api/internal/repository"
	"github.com/alexivanou/weather-report-api/internal/seed"
	"github.com/alexivanou/weather-report-api/internal/stats"
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

	ctx := context.Background()

	var repos *repository.Container
	if cfg.Store.IsSQL() {
		db, err := database.Connect(ctx, cfg.Store)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		repos = repository.NewSQLRepositories(db)
	} else {
		repos = repository.NewMemoryRepositories()
		if err := seed.Run(ctx, repos, logger); err != nil {
			logger.Fatal("Failed to seed sample data", zap.Error(err))
		}
	}

	collector := stats.NewCollector(repos, cfg.Store.Type)
	statistics, err := collector.Collect(ctx)
	if err != nil {
		logger.Fatal("Failed to collect statistics", zap.Error(err))
	}

	if os.Getenv("OUTPUT_FORMAT") == "text" {
		printText(statistics)
		return
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(statistics); err != nil {
		logger.Fatal("Failed to encode statistics", zap.Error(err))
	}
}

func printText(s *stats.Stats) {
	fmt.Printf("Collected at: %s\n\n", s.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Println("Dataset:")
	fmt.Printf("  store type:           %s\n", s.Dataset.StoreType)
	fmt.Printf("  locations:            %d\n", s.Dataset.Locations)
	fmt.Printf("  cities:               %d\n", s.Dataset.Cities)
	fmt.Printf("  conditions:           %d\n", s.Dataset.Conditions)
	fmt.Printf("  reports:              %d\n", s.Dataset.Reports)
	fmt.Printf("  report conditions:    %d\n", s.Dataset.ReportConditions)
	fmt.Printf("  cities with reports:  %d\n", s.Dataset.CitiesWithReports)
	fmt.Println("\nMemory:")
	fmt.Printf("  alloc:        %d bytes\n", s.Memory.Alloc)
	fmt.Printf("  heap in use:  %d bytes\n", s.Memory.HeapInuse)
	fmt.Printf("  gc cycles:    %d\n", s.Memory.NumGC)
	fmt.Println("\nRuntime:")
	fmt.Printf("  goroutines:  %d\n", s.Runtime.NumGoroutines)
	fmt.Printf("  cpus:        %d\n", s.Runtime.NumCPU)
	fmt.Printf("  uptime:      %ds\n", s.Runtime.UptimeSeconds)
}
