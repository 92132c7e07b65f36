package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexivanou/weather-report-api/internal/model"
	"github.com/alexivanou/weather-report-api/internal/repository"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string     { return &s }

func newTestService(t *testing.T) (*WeatherService, *repository.Container, *clockwork.FakeClock) {
	t.Helper()
	repos := repository.NewMemoryRepositories()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 4, 27, 12, 0, 0, 0, time.UTC))
	return NewWeatherService(repos, zap.NewNop(), clock), repos, clock
}

func TestAddWeatherReport_ProvisionsUnknownCity(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	report, err := svc.AddWeatherReport(ctx, model.WeatherReportCreate{
		City:        "Manchester",
		Temperature: floatPtr(16.5),
		Condition:   "Cloudy",
		Timestamp:   "2025-04-27T12:00:00Z",
		Humidity:    floatPtr(70),
	})
	require.NoError(t, err)

	assert.Equal(t, "Manchester", report.City)
	assert.InDelta(t, 16.5, report.Temperature, 0.0001)
	assert.Equal(t, model.UnitCelsius, report.Unit)
	assert.Equal(t, "Cloudy", report.Condition)
	assert.Equal(t, "2025-04-27T12:00:00Z", report.Timestamp)
	assert.InDelta(t, 70.0, report.Humidity, 0.0001)

	city, err := repos.City.FindByName(ctx, "Manchester")
	require.NoError(t, err)
	require.NotNil(t, city)
	assert.Equal(t, "Unknown", city.Country)

	location, err := repos.Location.GetByID(ctx, city.LocationID)
	require.NoError(t, err)
	require.NotNil(t, location)
	assert.Equal(t, "Manchester Area", location.Name)
}

func TestAddWeatherReport_ReusesExistingCity(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.AddWeatherReport(ctx, model.WeatherReportCreate{
			City:        "Manchester",
			Temperature: floatPtr(16.5),
			Condition:   "Cloudy",
			Timestamp:   "2025-04-27T12:00:00Z",
		})
		require.NoError(t, err)
	}

	cities, err := repos.City.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, cities, 1)

	locations, err := repos.Location.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, locations, 1)

	reports, err := repos.Report.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestAddWeatherReport_InvalidTimestamp(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddWeatherReport(context.Background(), model.WeatherReportCreate{
		City:        "Manchester",
		Temperature: floatPtr(16.5),
		Condition:   "Cloudy",
		Timestamp:   "yesterday at noon",
	})
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestAddWeatherReport_ReusesCondition(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	for _, city := range []string{"Manchester", "Leeds"} {
		_, err := svc.AddWeatherReport(ctx, model.WeatherReportCreate{
			City:        city,
			Temperature: floatPtr(10),
			Condition:   "Rainy",
			Timestamp:   "2025-04-27T12:00:00Z",
		})
		require.NoError(t, err)
	}

	conditions, err := repos.Condition.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, conditions, 1)

	links, err := repos.ReportCondition.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 2)
}

func TestGetCityWeather_ReturnsLatestOfMixedTimestamps(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// A naive timestamp and a zoned one; 20:00+09:00 is 11:00 UTC.
	reports := []model.WeatherReportCreate{
		{City: "London", Temperature: floatPtr(14.5), Condition: "Cloudy", Timestamp: "2025-04-27T10:00:00"},
		{City: "London", Temperature: floatPtr(15.1), Condition: "Sunny", Timestamp: "2025-04-27T20:00:00+09:00"},
	}
	for _, req := range reports {
		_, err := svc.AddWeatherReport(ctx, req)
		require.NoError(t, err)
	}

	latest, err := svc.GetCityWeather(ctx, "London")
	require.NoError(t, err)
	assert.InDelta(t, 15.1, latest.Temperature, 0.0001)
	assert.Equal(t, "Sunny", latest.Condition)
	assert.Equal(t, "2025-04-27T11:00:00Z", latest.Timestamp)
}

func TestGetCityWeather_UnknownCity(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetCityWeather(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrCityNotFound)
}

func TestGetCityWeather_CityWithoutReports(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	_, err := repos.City.Add(ctx, model.City{ID: uuid.New(), Name: "Ghosttown", LocationID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.GetCityWeather(ctx, "Ghosttown")
	assert.ErrorIs(t, err, ErrNoReports)
}

func TestGetAllCitySummaries_OmitsCitiesWithoutReports(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddWeatherReport(ctx, model.WeatherReportCreate{
		City: "London", Temperature: floatPtr(14.5), Condition: "Cloudy", Timestamp: "2025-04-27T10:00:00Z",
	})
	require.NoError(t, err)
	_, err = repos.City.Add(ctx, model.City{ID: uuid.New(), Name: "Ghosttown", LocationID: uuid.New()})
	require.NoError(t, err)

	summary, err := svc.GetAllCitySummaries(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, summary.Cities, 1)
	assert.Equal(t, "London", summary.Cities[0].City)
	assert.Equal(t, "Cloudy", summary.Cities[0].Condition)
}

func TestUpdateCityWeather_ReplacesLatestInPlace(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddWeatherReport(ctx, model.WeatherReportCreate{
		City: "London", Temperature: floatPtr(14.5), Condition: "Cloudy", Timestamp: "2025-04-27T10:00:00Z",
	})
	require.NoError(t, err)
	created, err := svc.AddWeatherReport(ctx, model.WeatherReportCreate{
		City: "London", Temperature: floatPtr(15.1), Condition: "Sunny", Timestamp: "2025-04-27T11:00:00Z",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateCityWeather(ctx, "London", model.WeatherReportUpdate{
		Temperature: floatPtr(18.0),
		Condition:   strPtr("Rainy"),
		Timestamp:   strPtr("2025-04-27T12:00:00Z"),
		Humidity:    floatPtr(80),
	})
	require.NoError(t, err)

	// Same report row, mutated fields; no new report created.
	assert.Equal(t, created.ID, updated.ID)
	assert.InDelta(t, 18.0, updated.Temperature, 0.0001)
	assert.Equal(t, "Rainy", updated.Condition)
	assert.Equal(t, "2025-04-27T12:00:00Z", updated.Timestamp)
	assert.InDelta(t, 80.0, updated.Humidity, 0.0001)

	reports, err := repos.Report.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestUpdateCityWeather_DefaultsTimestampToNow(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddWeatherReport(ctx, model.WeatherReportCreate{
		City: "London", Temperature: floatPtr(14.5), Condition: "Cloudy", Timestamp: "2025-04-27T10:00:00Z",
	})
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	updated, err := svc.UpdateCityWeather(ctx, "London", model.WeatherReportUpdate{
		Temperature: floatPtr(16.0),
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-04-27T14:00:00Z", updated.Timestamp)
	// Fields not provided keep their previous values.
	assert.Equal(t, "Cloudy", updated.Condition)
}

func TestUpdateCityWeather_UnknownCity(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.UpdateCityWeather(context.Background(), "Atlantis", model.WeatherReportUpdate{
		Temperature: floatPtr(20),
	})
	assert.ErrorIs(t, err, ErrCityNotFound)
}

func TestDeleteCityWeather_RemovesAllReportsAndLinks(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	for _, ts := range []string{"2025-04-27T10:00:00Z", "2025-04-27T11:00:00Z"} {
		_, err := svc.AddWeatherReport(ctx, model.WeatherReportCreate{
			City: "London", Temperature: floatPtr(14.5), Condition: "Cloudy", Timestamp: ts,
		})
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteCityWeather(ctx, "London"))

	reports, err := repos.Report.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, reports)

	links, err := repos.ReportCondition.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)

	// The city and its location survive; only weather data is removed.
	city, err := repos.City.FindByName(ctx, "London")
	require.NoError(t, err)
	assert.NotNil(t, city)

	err = svc.DeleteCityWeather(ctx, "London")
	assert.ErrorIs(t, err, ErrNoReports)
}

func TestDeleteCityWeather_UnknownCity(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.DeleteCityWeather(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrCityNotFound)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "rfc3339 utc",
			input:    "2025-04-27T10:00:00Z",
			expected: time.Date(2025, 4, 27, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "rfc3339 with offset",
			input:    "2025-04-27T20:00:00+09:00",
			expected: time.Date(2025, 4, 27, 11, 0, 0, 0, time.UTC),
		},
		{
			name:     "naive T separator treated as utc",
			input:    "2025-04-27T10:00:00",
			expected: time.Date(2025, 4, 27, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "naive space separator treated as utc",
			input:    "2025-04-27 10:00:00",
			expected: time.Date(2025, 4, 27, 10, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			input:   "not-a-timestamp",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimestamp)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.UTC().Equal(tt.expected), "got %s, expected %s", got, tt.expected)
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	offset := time.FixedZone("JST", 9*60*60)
	ts := time.Date(2025, 4, 27, 20, 0, 0, 0, offset)
	assert.Equal(t, "2025-04-27T11:00:00Z", FormatTimestamp(ts))
}
