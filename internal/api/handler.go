package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexivanou/weather-report-api/internal/model"
	"github.com/alexivanou/weather-report-api/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var validate = validator.New()

// Handler handles HTTP requests
type Handler struct {
	service service.WeatherServiceInterface
	logger  *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(svc service.WeatherServiceInterface, logger *zap.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// AddWeatherReport handles POST /weather
func (h *Handler) AddWeatherReport(w http.ResponseWriter, r *http.Request) {
	var req model.WeatherReportCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Validation error", "request body must be valid JSON")
		return
	}

	if detail, ok := h.validateReportBody(req, true); !ok {
		h.writeError(w, http.StatusBadRequest, "Validation error", detail)
		return
	}

	report, err := h.service.AddWeatherReport(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimestamp) {
			h.writeError(w, http.StatusBadRequest, "Validation error", "Invalid timestamp format")
			return
		}
		h.logger.Error("error adding weather report", zap.Error(err))
		h.writeInternalError(w)
		return
	}

	h.writeJSON(w, http.StatusCreated, report)
}

// GetAllCitySummaries handles GET /weather
func (h *Handler) GetAllCitySummaries(w http.ResponseWriter, r *http.Request) {
	// Pagination parameters are accepted but reserved for future use.
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	summary, err := h.service.GetAllCitySummaries(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("error listing city summaries", zap.Error(err))
		h.writeInternalError(w)
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

// GetCityWeather handles GET /weather/{city}
func (h *Handler) GetCityWeather(w http.ResponseWriter, r *http.Request) {
	city := mux.Vars(r)["city"]

	report, err := h.service.GetCityWeather(r.Context(), city)
	if err != nil {
		if isNotFound(err) {
			h.writeNotFound(w, city)
			return
		}
		h.logger.Error("error getting city weather", zap.String("city", city), zap.Error(err))
		h.writeInternalError(w)
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// UpdateCityWeather handles PUT /weather/{city}
func (h *Handler) UpdateCityWeather(w http.ResponseWriter, r *http.Request) {
	city := mux.Vars(r)["city"]

	var req model.WeatherReportCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Validation error", "request body must be valid JSON")
		return
	}

	if detail, ok := h.validateReportBody(req, false); !ok {
		h.writeError(w, http.StatusBadRequest, "Validation error", detail)
		return
	}

	upd := model.WeatherReportUpdate{
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
	}
	if req.Condition != "" {
		upd.Condition = &req.Condition
	}
	if req.Timestamp != "" {
		upd.Timestamp = &req.Timestamp
	}

	report, err := h.service.UpdateCityWeather(r.Context(), city, upd)
	if err != nil {
		switch {
		case isNotFound(err):
			h.writeNotFound(w, city)
		case errors.Is(err, service.ErrInvalidTimestamp):
			h.writeError(w, http.StatusBadRequest, "Validation error", "Invalid timestamp format")
		default:
			h.logger.Error("error updating city weather", zap.String("city", city), zap.Error(err))
			h.writeInternalError(w)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// DeleteCityWeather handles DELETE /weather/{city}
func (h *Handler) DeleteCityWeather(w http.ResponseWriter, r *http.Request) {
	city := mux.Vars(r)["city"]

	if err := h.service.DeleteCityWeather(r.Context(), city); err != nil {
		if isNotFound(err) {
			h.writeNotFound(w, city)
			return
		}
		h.logger.Error("error deleting city weather", zap.String("city", city), zap.Error(err))
		h.writeInternalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// validateReportBody checks the shared create/update body. timestampRequired
// distinguishes POST (required) from PUT (optional, defaults to now).
func (h *Handler) validateReportBody(req model.WeatherReportCreate, timestampRequired bool) (string, bool) {
	if err := validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return fieldDetail(validationErrors[0]), false
		}
		return "invalid request body", false
	}
	if timestampRequired && req.Timestamp == "" {
		return "timestamp field is required", false
	}
	return "", true
}

// fieldDetail renders one validation failure as a human-readable message.
func fieldDetail(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s field is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 0 and 100", field)
	default:
		return fmt.Sprintf("%s field is invalid", field)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, service.ErrCityNotFound) || errors.Is(err, service.ErrNoReports)
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			return value
		}
	}
	return defaultValue
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("error encoding response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, errMsg, detail string) {
	h.writeJSON(w, status, model.ErrorResponse{Error: errMsg, Detail: detail})
}

func (h *Handler) writeNotFound(w http.ResponseWriter, city string) {
	h.writeError(w, http.StatusNotFound, "Resource not found", fmt.Sprintf("No weather data found for %s", city))
}

func (h *Handler) writeInternalError(w http.ResponseWriter) {
	h.writeError(w, http.StatusInternalServerError, "Internal server error", "An unexpected error occurred")
}
