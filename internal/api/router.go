package api

import (
	"github.com/alexivanou/weather-report-api/internal/service"
	"github.com/alexivanou/weather-report-api/internal/stats"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router
func NewRouter(svc service.WeatherServiceInterface, statsCollector *stats.Collector, logger *zap.Logger) *mux.Router {
	handler := NewHandler(svc, logger)
	statsHandler := NewStatsHandler(statsCollector, logger)

	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Weather contract
	router.HandleFunc("/weather", handler.AddWeatherReport).Methods("POST")
	router.HandleFunc("/weather", handler.GetAllCitySummaries).Methods("GET")
	router.HandleFunc("/weather/{city}", handler.GetCityWeather).Methods("GET")
	router.HandleFunc("/weather/{city}", handler.UpdateCityWeather).Methods("PUT")
	router.HandleFunc("/weather/{city}", handler.DeleteCityWeather).Methods("DELETE")

	// Introspection
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	return router
}
