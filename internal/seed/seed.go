// Package seed populates the repositories with a fixed sample dataset for
// development environments. It is not used in production.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/alexivanou/weather-report-api/internal/model"
	"github.com/alexivanou/weather-report-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IsEmpty reports whether the store has no cities yet; used to decide
// whether to seed at startup.
func IsEmpty(ctx context.Context, repos *repository.Container) (bool, error) {
	cities, err := repos.City.GetAll(ctx)
	if err != nil {
		return false, err
	}
	return len(cities) == 0, nil
}

// Run clears every repository and inserts the sample dataset.
func Run(ctx context.Context, repos *repository.Container, logger *zap.Logger) error {
	logger.Info("seeding sample data")

	// Link tables first so the SQL backends never hit a foreign key.
	clears := []struct {
		name  string
		clear func(context.Context) error
	}{
		{"report_conditions", repos.ReportCondition.Clear},
		{"reports", repos.Report.Clear},
		{"conditions", repos.Condition.Clear},
		{"cities", repos.City.Clear},
		{"locations", repos.Location.Clear},
	}
	for _, c := range clears {
		if err := c.clear(ctx); err != nil {
			return fmt.Errorf("failed to clear %s: %w", c.name, err)
		}
	}

	locLondon := model.Location{
		ID:        uuid.New(),
		Name:      "London Centre",
		Latitude:  51.5074,
		Longitude: -0.1278,
		Elevation: 11.0,
		Timezone:  "Europe/London",
	}
	locTokyo := model.Location{
		ID:        uuid.New(),
		Name:      "Tokyo Station",
		Latitude:  35.6812,
		Longitude: 139.7671,
		Elevation: 5.0,
		Timezone:  "Asia/Tokyo",
	}
	for _, loc := range []model.Location{locLondon, locTokyo} {
		if _, err := repos.Location.Add(ctx, loc); err != nil {
			return fmt.Errorf("failed to seed location %q: %w", loc.Name, err)
		}
	}

	cities := []model.City{
		{ID: uuid.New(), Name: "London", Country: "United Kingdom", LocationID: locLondon.ID},
		{ID: uuid.New(), Name: "Tokyo", Country: "Japan", LocationID: locTokyo.ID},
	}
	for _, city := range cities {
		if _, err := repos.City.Add(ctx, city); err != nil {
			return fmt.Errorf("failed to seed city %q: %w", city.Name, err)
		}
	}

	condSunny := model.Condition{ID: uuid.New(), Name: "Sunny", Type: model.ConditionSunny, Intensity: model.IntensityModerate}
	condCloudy := model.Condition{ID: uuid.New(), Name: "Cloudy", Type: model.ConditionCloudy, Intensity: model.IntensityModerate}
	condLightRain := model.Condition{ID: uuid.New(), Name: "Light Rain", Type: model.ConditionRainy, Intensity: model.IntensityLight}
	for _, cond := range []model.Condition{condSunny, condCloudy, condLightRain} {
		if _, err := repos.Condition.Add(ctx, cond); err != nil {
			return fmt.Errorf("failed to seed condition %q: %w", cond.Name, err)
		}
	}

	reportLondon1 := model.Report{
		ID:                 uuid.New(),
		LocationID:         locLondon.ID,
		Timestamp:          time.Date(2025, 4, 27, 10, 0, 0, 0, time.UTC),
		Source:             "Local Sensor",
		TemperatureCurrent: 14.5,
		TemperatureUnit:    model.UnitCelsius,
		Humidity:           65.0,
	}
	reportLondon2 := model.Report{
		ID:                 uuid.New(),
		LocationID:         locLondon.ID,
		Timestamp:          time.Date(2025, 4, 27, 11, 0, 0, 0, time.UTC),
		Source:             "Local Sensor",
		TemperatureCurrent: 15.1,
		TemperatureUnit:    model.UnitCelsius,
		Humidity:           62.0,
	}
	reportTokyo1 := model.Report{
		ID:                 uuid.New(),
		LocationID:         locTokyo.ID,
		Timestamp:          time.Date(2025, 4, 27, 18, 0, 0, 0, time.UTC),
		Source:             "JMA",
		TemperatureCurrent: 22.0,
		TemperatureUnit:    model.UnitCelsius,
		Humidity:           75.0,
	}
	for _, report := range []model.Report{reportLondon1, reportLondon2, reportTokyo1} {
		if _, err := repos.Report.Add(ctx, report); err != nil {
			return fmt.Errorf("failed to seed report %s: %w", report.ID, err)
		}
	}

	links := []model.ReportCondition{
		{ID: uuid.New(), ReportID: reportLondon1.ID, ConditionID: condCloudy.ID},
		{ID: uuid.New(), ReportID: reportLondon2.ID, ConditionID: condSunny.ID},
		{ID: uuid.New(), ReportID: reportTokyo1.ID, ConditionID: condLightRain.ID},
	}
	for _, link := range links {
		if _, err := repos.ReportCondition.Add(ctx, link); err != nil {
			return fmt.Errorf("failed to seed report condition %s: %w", link.ID, err)
		}
	}

	logger.Info("finished seeding data",
		zap.Int("locations", 2),
		zap.Int("cities", len(cities)),
		zap.Int("conditions", 3),
		zap.Int("reports", 3),
		zap.Int("report_conditions", len(links)),
	)
	return nil
}
