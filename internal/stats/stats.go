package stats

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/alexivanou/weather-report-api/internal/config"
	"github.com/alexivanou/weather-report-api/internal/repository"
)

type Stats struct {
	Timestamp time.Time    `json:"timestamp"`
	Memory    MemoryStats  `json:"memory"`
	Dataset   DatasetStats `json:"dataset"`
	Runtime   RuntimeStats `json:"runtime"`
}

type MemoryStats struct {
	Alloc        uint64 `json:"alloc"`
	TotalAlloc   uint64 `json:"total_alloc"`
	Sys          uint64 `json:"sys"`
	NumGC        uint32 `json:"num_gc"`
	HeapAlloc    uint64 `json:"heap_alloc"`
	HeapSys      uint64 `json:"heap_sys"`
	HeapInuse    uint64 `json:"heap_inuse"`
	HeapReleased uint64 `json:"heap_released"`
}

type DatasetStats struct {
	StoreType         string `json:"store_type"`
	Locations         int    `json:"locations"`
	Cities            int    `json:"cities"`
	Conditions        int    `json:"conditions"`
	Reports           int    `json:"reports"`
	ReportConditions  int    `json:"report_conditions"`
	CitiesWithReports int    `json:"cities_with_reports"`
}

type RuntimeStats struct {
	NumGoroutines int   `json:"num_goroutines"`
	NumCPU        int   `json:"num_cpu"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

type Collector struct {
	repos      *repository.Container
	storeType  config.StoreType
	startTime  time.Time
	cachedMem  *MemoryStats
	cacheTime  time.Time
	cacheMutex sync.RWMutex
}

var memStatsCacheDuration = 5 * time.Second

func NewCollector(repos *repository.Container, storeType config.StoreType) *Collector {
	return &Collector{
		repos:     repos,
		storeType: storeType,
		startTime: time.Now(),
	}
}

func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Timestamp: time.Now(),
	}

	stats.Memory = c.collectMemoryStats()

	dataset, err := c.collectDatasetStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Dataset = *dataset
	stats.Runtime = c.collectRuntimeStats()

	return stats, nil
}

func (c *Collector) collectMemoryStats() MemoryStats {
	c.cacheMutex.RLock()
	if c.cachedMem != nil && time.Since(c.cacheTime) < memStatsCacheDuration {
		mem := *c.cachedMem
		c.cacheMutex.RUnlock()
		return mem
	}
	c.cacheMutex.RUnlock()

	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mem := MemoryStats{
		Alloc:        m.Alloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		HeapInuse:    m.HeapInuse,
		HeapReleased: m.HeapReleased,
	}

	c.cachedMem = &mem
	c.cacheTime = time.Now()

	return mem
}

func (c *Collector) collectDatasetStats(ctx context.Context) (*DatasetStats, error) {
	stats := &DatasetStats{
		StoreType: string(c.storeType),
	}

	locations, err := c.repos.Location.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count locations: %w", err)
	}
	stats.Locations = len(locations)

	cities, err := c.repos.City.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count cities: %w", err)
	}
	stats.Cities = len(cities)

	conditions, err := c.repos.Condition.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count conditions: %w", err)
	}
	stats.Conditions = len(conditions)

	reports, err := c.repos.Report.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}
	stats.Reports = len(reports)

	links, err := c.repos.ReportCondition.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count report conditions: %w", err)
	}
	stats.ReportConditions = len(links)

	for _, city := range cities {
		latest, err := c.repos.Report.FindByLocationID(ctx, city.LocationID, true)
		if err != nil {
			return nil, fmt.Errorf("failed to find reports for %q: %w", city.Name, err)
		}
		if len(latest) > 0 {
			stats.CitiesWithReports++
		}
	}

	return stats, nil
}

func (c *Collector) collectRuntimeStats() RuntimeStats {
	uptime := time.Since(c.startTime).Seconds()
	return RuntimeStats{
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		UptimeSeconds: int64(uptime),
	}
}
