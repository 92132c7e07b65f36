package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexivanou/weather-report-api/internal/model"
	"github.com/alexivanou/weather-report-api/internal/repository"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Sentinel errors translated to HTTP statuses at the API boundary.
var (
	ErrCityNotFound     = errors.New("city not found")
	ErrNoReports        = errors.New("no weather reports found for city")
	ErrInvalidTimestamp = errors.New("invalid timestamp format")
)

// WeatherServiceInterface defines the service interface for testing
type WeatherServiceInterface interface {
	AddWeatherReport(ctx context.Context, req model.WeatherReportCreate) (*model.WeatherReport, error)
	GetAllCitySummaries(ctx context.Context, limit, offset int) (*model.WeatherSummary, error)
	GetCityWeather(ctx context.Context, cityName string) (*model.WeatherReport, error)
	UpdateCityWeather(ctx context.Context, cityName string, upd model.WeatherReportUpdate) (*model.WeatherReport, error)
	DeleteCityWeather(ctx context.Context, cityName string) error
}

// WeatherService provides the weather report business logic
type WeatherService struct {
	repos  *repository.Container
	logger *zap.Logger
	clock  clockwork.Clock
}

// NewWeatherService creates a new service instance
func NewWeatherService(repos *repository.Container, logger *zap.Logger, clock clockwork.Clock) *WeatherService {
	return &WeatherService{
		repos:  repos,
		logger: logger,
		clock:  clock,
	}
}

// naive layouts accepted in addition to RFC 3339; they carry no zone
// information and are interpreted as UTC.
var naiveTimestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses an ISO-8601 timestamp string. Values without a zone
// offset are treated as UTC so every stored timestamp is comparable.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveTimestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// FormatTimestamp renders a stored timestamp as UTC RFC 3339 for API responses.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
