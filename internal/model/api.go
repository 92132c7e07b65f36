package model

import "github.com/google/uuid"

// WeatherReportCreate is the request body for POST /weather and PUT /weather/{city}.
// Timestamp is required on create and optional on update; the handlers enforce
// the difference on top of the shared tags.
type WeatherReportCreate struct {
	City        string   `json:"city" validate:"required"`
	Temperature *float64 `json:"temperature" validate:"required"`
	Condition   string   `json:"condition" validate:"required,oneof=Sunny Cloudy Rainy Snowy Windy Foggy"`
	Timestamp   string   `json:"timestamp" validate:"omitempty"`
	Humidity    *float64 `json:"humidity" validate:"omitempty,gte=0,lte=100"`
}

// WeatherReportUpdate carries the mutable fields of an update; nil means
// "leave as is" except Timestamp, which defaults to the current time when nil.
type WeatherReportUpdate struct {
	Temperature *float64
	Condition   *string
	Timestamp   *string
	Humidity    *float64
}

// WeatherReport is the API representation of a stored report.
type WeatherReport struct {
	ID          uuid.UUID       `json:"id"`
	City        string          `json:"city"`
	Temperature float64         `json:"temperature"`
	Unit        TemperatureUnit `json:"unit"`
	Condition   string          `json:"condition"`
	Timestamp   string          `json:"timestamp"`
	Humidity    float64         `json:"humidity"`
}

// CityWeatherSummary is one row of the GET /weather listing.
type CityWeatherSummary struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Timestamp   string  `json:"timestamp"`
}

// WeatherSummary is the GET /weather response. Cities with no reports are omitted.
type WeatherSummary struct {
	Cities []CityWeatherSummary `json:"cities"`
}

// ErrorResponse is the body returned for every 4xx/5xx outcome.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}
