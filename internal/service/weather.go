package service

import (
	"context"
	"fmt"

	"github.com/alexivanou/weather-report-api/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const reportSource = "API"

// AddWeatherReport stores a new report for the named city, creating the city
// and a placeholder location on first sight so submissions never 404.
func (s *WeatherService) AddWeatherReport(ctx context.Context, req model.WeatherReportCreate) (*model.WeatherReport, error) {
	city, err := s.repos.City.FindByName(ctx, req.City)
	if err != nil {
		return nil, fmt.Errorf("failed to look up city: %w", err)
	}
	if city == nil {
		city, err = s.provisionCity(ctx, req.City)
		if err != nil {
			return nil, err
		}
	}

	timestamp := s.clock.Now().UTC()
	if req.Timestamp != "" {
		timestamp, err = ParseTimestamp(req.Timestamp)
		if err != nil {
			return nil, err
		}
	}

	var humidity float64
	if req.Humidity != nil {
		humidity = *req.Humidity
	}

	report := model.Report{
		ID:                 uuid.New(),
		LocationID:         city.LocationID,
		Timestamp:          timestamp,
		Source:             reportSource,
		TemperatureCurrent: *req.Temperature,
		TemperatureUnit:    model.UnitCelsius,
		Humidity:           humidity,
	}
	created, err := s.repos.Report.Add(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}

	if req.Condition != "" {
		if err := s.attachCondition(ctx, req.Condition, created.ID); err != nil {
			// The report itself is stored; a condition failure is not fatal.
			s.logger.Warn("could not attach condition to report",
				zap.String("condition", req.Condition),
				zap.String("report_id", created.ID.String()),
				zap.Error(err),
			)
		}
	}

	return reportView(created, req.City, req.Condition), nil
}

// GetAllCitySummaries projects every city onto its latest report. Cities with
// no reports are omitted. limit and offset are reserved for pagination and
// currently not applied.
func (s *WeatherService) GetAllCitySummaries(ctx context.Context, limit, offset int) (*model.WeatherSummary, error) {
	cities, err := s.repos.City.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}

	summaries := make([]model.CityWeatherSummary, 0, len(cities))
	for _, city := range cities {
		reports, err := s.repos.Report.FindByLocationID(ctx, city.LocationID, true)
		if err != nil {
			return nil, fmt.Errorf("failed to find reports for %q: %w", city.Name, err)
		}
		if len(reports) == 0 {
			continue
		}
		latest := reports[0]

		condition, err := s.conditionForReport(ctx, latest.ID)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, model.CityWeatherSummary{
			City:        city.Name,
			Temperature: latest.TemperatureCurrent,
			Condition:   condition,
			Timestamp:   FormatTimestamp(latest.Timestamp),
		})
	}

	return &model.WeatherSummary{Cities: summaries}, nil
}

// GetCityWeather returns the latest report for the named city.
func (s *WeatherService) GetCityWeather(ctx context.Context, cityName string) (*model.WeatherReport, error) {
	_, latest, err := s.latestReport(ctx, cityName)
	if err != nil {
		return nil, err
	}

	condition, err := s.conditionForReport(ctx, latest.ID)
	if err != nil {
		return nil, err
	}

	return reportView(*latest, cityName, condition), nil
}

// UpdateCityWeather overwrites the mutable fields of the city's latest report
// in place. The report keeps its identifier; this is a field-level replace,
// not the creation of a new report.
func (s *WeatherService) UpdateCityWeather(ctx context.Context, cityName string, upd model.WeatherReportUpdate) (*model.WeatherReport, error) {
	_, latest, err := s.latestReport(ctx, cityName)
	if err != nil {
		return nil, err
	}

	if upd.Timestamp != nil && *upd.Timestamp != "" {
		timestamp, err := ParseTimestamp(*upd.Timestamp)
		if err != nil {
			return nil, err
		}
		latest.Timestamp = timestamp
	} else {
		latest.Timestamp = s.clock.Now().UTC()
	}
	if upd.Temperature != nil {
		latest.TemperatureCurrent = *upd.Temperature
	}
	if upd.Humidity != nil {
		latest.Humidity = *upd.Humidity
	}

	updated, err := s.repos.Report.Update(ctx, *latest)
	if err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}
	if updated == nil {
		return nil, ErrNoReports
	}

	condition := ""
	if upd.Condition != nil && *upd.Condition != "" {
		condition = *upd.Condition
		if err := s.removeConditionsForReport(ctx, updated.ID); err != nil {
			return nil, err
		}
		if err := s.attachCondition(ctx, condition, updated.ID); err != nil {
			s.logger.Warn("could not attach condition to report",
				zap.String("condition", condition),
				zap.String("report_id", updated.ID.String()),
				zap.Error(err),
			)
		}
	} else {
		condition, err = s.conditionForReport(ctx, updated.ID)
		if err != nil {
			return nil, err
		}
	}

	return reportView(*updated, cityName, condition), nil
}

// DeleteCityWeather removes every report for the named city, including the
// report-condition links, not just the latest one.
func (s *WeatherService) DeleteCityWeather(ctx context.Context, cityName string) error {
	city, err := s.repos.City.FindByName(ctx, cityName)
	if err != nil {
		return fmt.Errorf("failed to look up city: %w", err)
	}
	if city == nil {
		return ErrCityNotFound
	}

	reports, err := s.repos.Report.FindByLocationID(ctx, city.LocationID, false)
	if err != nil {
		return fmt.Errorf("failed to find reports: %w", err)
	}
	if len(reports) == 0 {
		return ErrNoReports
	}

	for _, report := range reports {
		if err := s.removeConditionsForReport(ctx, report.ID); err != nil {
			return err
		}
		if _, err := s.repos.Report.Delete(ctx, report.ID); err != nil {
			return fmt.Errorf("failed to delete report %s: %w", report.ID, err)
		}
	}

	s.logger.Info("deleted weather reports",
		zap.String("city", cityName),
		zap.Int("count", len(reports)),
	)
	return nil
}

// --- helpers ---

// provisionCity creates a City plus a placeholder Location for a name seen
// for the first time.
func (s *WeatherService) provisionCity(ctx context.Context, cityName string) (*model.City, error) {
	s.logger.Info("city not found, creating it", zap.String("city", cityName))

	location, err := s.repos.Location.Add(ctx, model.Location{
		ID:       uuid.New(),
		Name:     cityName + " Area",
		Timezone: "UTC",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	city, err := s.repos.City.Add(ctx, model.City{
		ID:         uuid.New(),
		Name:       cityName,
		Country:    "Unknown",
		LocationID: location.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create city: %w", err)
	}
	return &city, nil
}

// latestReport resolves City -> Location -> most recent Report. Both an
// unknown city and a known city without reports are not-found outcomes.
func (s *WeatherService) latestReport(ctx context.Context, cityName string) (*model.City, *model.Report, error) {
	city, err := s.repos.City.FindByName(ctx, cityName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up city: %w", err)
	}
	if city == nil {
		return nil, nil, ErrCityNotFound
	}

	reports, err := s.repos.Report.FindByLocationID(ctx, city.LocationID, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find reports: %w", err)
	}
	if len(reports) == 0 {
		return nil, nil, ErrNoReports
	}
	return city, &reports[0], nil
}

// attachCondition links the named condition to a report, reusing an existing
// Condition entity or creating one with moderate intensity.
func (s *WeatherService) attachCondition(ctx context.Context, conditionName string, reportID uuid.UUID) error {
	conditionType, ok := model.ConditionTypeFromName(conditionName)
	if !ok {
		return fmt.Errorf("invalid condition type: %s", conditionName)
	}

	condition, err := s.repos.Condition.FindByName(ctx, conditionName)
	if err != nil {
		return fmt.Errorf("failed to look up condition: %w", err)
	}
	if condition == nil {
		created, err := s.repos.Condition.Add(ctx, model.Condition{
			ID:        uuid.New(),
			Name:      conditionName,
			Type:      conditionType,
			Intensity: model.IntensityModerate,
		})
		if err != nil {
			return fmt.Errorf("failed to create condition: %w", err)
		}
		condition = &created
	}

	_, err = s.repos.ReportCondition.Add(ctx, model.ReportCondition{
		ID:          uuid.New(),
		ReportID:    reportID,
		ConditionID: condition.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to link condition: %w", err)
	}
	return nil
}

// conditionForReport returns the display name of the report's first linked
// condition, or "" when none is linked.
func (s *WeatherService) conditionForReport(ctx context.Context, reportID uuid.UUID) (string, error) {
	links, err := s.repos.ReportCondition.FindByReportID(ctx, reportID)
	if err != nil {
		return "", fmt.Errorf("failed to find report conditions: %w", err)
	}
	if len(links) == 0 {
		return "", nil
	}
	condition, err := s.repos.Condition.GetByID(ctx, links[0].ConditionID)
	if err != nil {
		return "", fmt.Errorf("failed to load condition: %w", err)
	}
	if condition == nil {
		return "", nil
	}
	return condition.Name, nil
}

func (s *WeatherService) removeConditionsForReport(ctx context.Context, reportID uuid.UUID) error {
	links, err := s.repos.ReportCondition.FindByReportID(ctx, reportID)
	if err != nil {
		return fmt.Errorf("failed to find report conditions: %w", err)
	}
	for _, link := range links {
		if _, err := s.repos.ReportCondition.Delete(ctx, link.ID); err != nil {
			return fmt.Errorf("failed to delete report condition %s: %w", link.ID, err)
		}
	}
	return nil
}

func reportView(r model.Report, cityName, condition string) *model.WeatherReport {
	return &model.WeatherReport{
		ID:          r.ID,
		City:        cityName,
		Temperature: r.TemperatureCurrent,
		Unit:        r.TemperatureUnit,
		Condition:   condition,
		Timestamp:   FormatTimestamp(r.Timestamp),
		Humidity:    r.Humidity,
	}
}
