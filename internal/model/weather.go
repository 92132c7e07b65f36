package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ConditionType classifies a weather condition.
type ConditionType string

const (
	ConditionSunny  ConditionType = "sunny"
	ConditionCloudy ConditionType = "cloudy"
	ConditionRainy  ConditionType = "rainy"
	ConditionSnowy  ConditionType = "snowy"
	ConditionFoggy  ConditionType = "foggy"
	ConditionWindy  ConditionType = "windy"
	ConditionStormy ConditionType = "stormy"
)

// IntensityLevel qualifies how strong a condition is.
type IntensityLevel string

const (
	IntensityNone     IntensityLevel = "none"
	IntensityLight    IntensityLevel = "light"
	IntensityModerate IntensityLevel = "moderate"
	IntensityHeavy    IntensityLevel = "heavy"
	IntensitySevere   IntensityLevel = "severe"
)

// TemperatureUnit is the unit a temperature reading was taken in.
type TemperatureUnit string

const (
	UnitCelsius    TemperatureUnit = "celsius"
	UnitFahrenheit TemperatureUnit = "fahrenheit"
	UnitKelvin     TemperatureUnit = "kelvin"
)

// Location is a geocoded point one or more cities reference.
// Locations are immutable after creation.
type Location struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Latitude  float64   `db:"latitude" json:"latitude"`
	Longitude float64   `db:"longitude" json:"longitude"`
	Elevation float64   `db:"elevation" json:"elevation"`
	Timezone  string    `db:"timezone" json:"timezone"`
}

// City is a named city pointing at exactly one Location.
// Name is the lookup key used by the HTTP surface.
type City struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Country    string    `db:"country" json:"country"`
	LocationID uuid.UUID `db:"location_id" json:"location_id"`
}

// Condition is a reusable weather condition, linked to reports via ReportCondition.
type Condition struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Type      ConditionType  `db:"type" json:"type"`
	Intensity IntensityLevel `db:"intensity" json:"intensity"`
}

// Report is a single weather observation for a location at a point in time.
type Report struct {
	ID                 uuid.UUID       `db:"id" json:"id"`
	LocationID         uuid.UUID       `db:"location_id" json:"location_id"`
	Timestamp          time.Time       `db:"timestamp" json:"timestamp"`
	Source             string          `db:"source" json:"source"`
	TemperatureCurrent float64         `db:"temperature_current" json:"temperature_current"`
	TemperatureUnit    TemperatureUnit `db:"temperature_unit" json:"temperature_unit"`
	Humidity           float64         `db:"humidity" json:"humidity"`
}

// ReportCondition links a Report to a Condition (many-to-many).
type ReportCondition struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ReportID    uuid.UUID `db:"report_id" json:"report_id"`
	ConditionID uuid.UUID `db:"condition_id" json:"condition_id"`
}

func (l Location) EntityID() uuid.UUID        { return l.ID }
func (c City) EntityID() uuid.UUID            { return c.ID }
func (c Condition) EntityID() uuid.UUID       { return c.ID }
func (r Report) EntityID() uuid.UUID          { return r.ID }
func (rc ReportCondition) EntityID() uuid.UUID { return rc.ID }

// ConditionTypeFromName maps a display name like "Sunny" or "Light Rain"
// onto the closed ConditionType set. The second return is false when the
// name does not correspond to any known type.
func ConditionTypeFromName(name string) (ConditionType, bool) {
	switch ConditionType(strings.ToLower(name)) {
	case ConditionSunny:
		return ConditionSunny, true
	case ConditionCloudy:
		return ConditionCloudy, true
	case ConditionRainy:
		return ConditionRainy, true
	case ConditionSnowy:
		return ConditionSnowy, true
	case ConditionFoggy:
		return ConditionFoggy, true
	case ConditionWindy:
		return ConditionWindy, true
	case ConditionStormy:
		return ConditionStormy, true
	}
	return "", false
}
