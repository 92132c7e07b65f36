package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexivanou/weather-report-api/internal/config"
	"github.com/alexivanou/weather-report-api/internal/model"
	"github.com/alexivanou/weather-report-api/internal/repository"
	"github.com/alexivanou/weather-report-api/internal/seed"
	"github.com/alexivanou/weather-report-api/internal/service"
	"github.com/alexivanou/weather-report-api/internal/stats"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupServer wires the full stack on the in-memory store with the sample
// dataset loaded, mirroring how cmd/app boots in the default configuration.
func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	repos := repository.NewMemoryRepositories()
	logger := zap.NewNop()
	require.NoError(t, seed.Run(context.Background(), repos, logger))

	svc := service.NewWeatherService(repos, logger, clockwork.NewRealClock())
	collector := stats.NewCollector(repos, config.StoreTypeMemory)
	server := httptest.NewServer(NewRouter(svc, collector, logger))
	t.Cleanup(server.Close)
	return server
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body interface{}, out interface{}) int {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func do(t *testing.T, method, url string) int {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestIntegration_SeededSummaries(t *testing.T) {
	server := setupServer(t)

	var summary model.WeatherSummary
	status := getJSON(t, server.URL+"/weather", &summary)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, summary.Cities, 2)

	byCity := map[string]model.CityWeatherSummary{}
	for _, city := range summary.Cities {
		byCity[city.City] = city
	}

	london, ok := byCity["London"]
	require.True(t, ok)
	assert.InDelta(t, 15.1, london.Temperature, 0.0001)
	assert.Equal(t, "Sunny", london.Condition)
	assert.Equal(t, "2025-04-27T11:00:00Z", london.Timestamp)

	tokyo, ok := byCity["Tokyo"]
	require.True(t, ok)
	assert.InDelta(t, 22.0, tokyo.Temperature, 0.0001)
	assert.Equal(t, "Light Rain", tokyo.Condition)
}

func TestIntegration_PostThenGetRoundTrip(t *testing.T) {
	server := setupServer(t)

	var created model.WeatherReport
	status := postJSON(t, server.URL+"/weather", map[string]interface{}{
		"city":        "Manchester",
		"temperature": 16.5,
		"condition":   "Cloudy",
		"timestamp":   "2025-04-27T12:00:00Z",
		"humidity":    70,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Manchester", created.City)

	var got model.WeatherReport
	status = getJSON(t, server.URL+"/weather/Manchester", &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.ID, got.ID)
	assert.InDelta(t, 16.5, got.Temperature, 0.0001)
	assert.Equal(t, "Cloudy", got.Condition)
	assert.Equal(t, "2025-04-27T12:00:00Z", got.Timestamp)
}

func TestIntegration_LatestReportWins(t *testing.T) {
	server := setupServer(t)

	for _, report := range []map[string]interface{}{
		{"city": "Oslo", "temperature": 3.0, "condition": "Snowy", "timestamp": "2025-04-27T08:00:00Z"},
		{"city": "Oslo", "temperature": 5.5, "condition": "Sunny", "timestamp": "2025-04-27T14:00:00Z"},
	} {
		status := postJSON(t, server.URL+"/weather", report, nil)
		require.Equal(t, http.StatusCreated, status)
	}

	var got model.WeatherReport
	status := getJSON(t, server.URL+"/weather/Oslo", &got)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 5.5, got.Temperature, 0.0001)
	assert.Equal(t, "Sunny", got.Condition)
	assert.Equal(t, "2025-04-27T14:00:00Z", got.Timestamp)
}

func TestIntegration_PutUpdatesLatest(t *testing.T) {
	server := setupServer(t)

	var before model.WeatherReport
	status := getJSON(t, server.URL+"/weather/London", &before)
	require.Equal(t, http.StatusOK, status)

	payload, err := json.Marshal(map[string]interface{}{
		"city":        "London",
		"temperature": 18.0,
		"condition":   "Rainy",
		"timestamp":   "2025-04-27T13:00:00Z",
	})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, server.URL+"/weather/London", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated model.WeatherReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, before.ID, updated.ID)
	assert.InDelta(t, 18.0, updated.Temperature, 0.0001)
	assert.Equal(t, "Rainy", updated.Condition)

	var after model.WeatherReport
	status = getJSON(t, server.URL+"/weather/London", &after)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, "Rainy", after.Condition)
}

func TestIntegration_DeleteIsIdempotentOnlyOnce(t *testing.T) {
	server := setupServer(t)

	status := do(t, http.MethodDelete, server.URL+"/weather/London")
	assert.Equal(t, http.StatusNoContent, status)

	// Everything London is gone, so a second delete is a 404.
	status = do(t, http.MethodDelete, server.URL+"/weather/London")
	assert.Equal(t, http.StatusNotFound, status)

	status = do(t, http.MethodGet, server.URL+"/weather/London")
	assert.Equal(t, http.StatusNotFound, status)

	// Tokyo is untouched.
	var summary model.WeatherSummary
	status = getJSON(t, server.URL+"/weather", &summary)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, summary.Cities, 1)
	assert.Equal(t, "Tokyo", summary.Cities[0].City)
}

func TestIntegration_UnknownCityIs404(t *testing.T) {
	server := setupServer(t)

	status := do(t, http.MethodGet, server.URL+"/weather/Atlantis")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestIntegration_StatsEndpoint(t *testing.T) {
	server := setupServer(t)

	var got stats.Stats
	status := getJSON(t, server.URL+"/api/v1/stats", &got)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "memory", got.Dataset.StoreType)
	assert.Equal(t, 2, got.Dataset.Cities)
	assert.Equal(t, 3, got.Dataset.Reports)
	assert.Equal(t, 2, got.Dataset.CitiesWithReports)
}
