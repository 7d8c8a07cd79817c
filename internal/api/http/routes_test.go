package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-now/internal/location"
	"github.com/i474232898/weather-now/internal/store"
	"github.com/i474232898/weather-now/internal/weather"
)

type stubProvider struct {
	release chan struct{}
	resp    weather.ForecastResponse
	err     error
}

func (p *stubProvider) Fetch(ctx context.Context, _ weather.Coordinate) (weather.ForecastResponse, error) {
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return weather.ForecastResponse{}, weather.NewTransportFailure(ctx.Err())
		}
	}
	return p.resp, p.err
}

func sanFranciscoForecast() weather.ForecastResponse {
	return weather.ForecastResponse{
		Location:     weather.ForecastLocation{Latitude: 37.7749, Longitude: -122.4194, TimezoneName: "America/Los_Angeles", TimezoneAbbrev: "PST"},
		Current:      weather.CurrentWeather{Timestamp: "2024-01-15T12:00", IntervalSeconds: 900, TemperatureC: 22.5, WeatherCode: 0},
		CurrentUnits: weather.CurrentUnits{Time: "iso8601", Interval: "seconds", Temperature: "°C", WeatherCode: "wmo code"},
		Daily: weather.DailyForecast{
			Dates:        []string{"2024-01-15"},
			WeatherCodes: []weather.WeatherCode{0},
			TempMax:      []float64{25},
			TempMin:      []float64{18},
		},
	}
}

type testEnv struct {
	app      *fiber.App
	session  *weather.Session
	source   *location.Source
	history  *store.MemoryStore
	provider *stubProvider
}

func newTestEnv(t *testing.T, source *location.Source) *testEnv {
	t.Helper()
	provider := &stubProvider{resp: sanFranciscoForecast()}
	session := weather.NewSession(provider, source)
	history := store.NewMemoryStore(0, 0)
	session.OnSettle(history.Recorder())
	t.Cleanup(session.Close)

	app := NewApp("weather-now-test")
	RegisterRoutes(app, session, source, history)
	return &testEnv{app: app, session: session, source: source, history: history, provider: provider}
}

func (e *testEnv) do(t *testing.T, method, target, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, location.NewSource(nil))
	status, body := env.do(t, http.MethodGet, "/health", "")
	if status != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health = %d %v", status, body)
	}
}

func TestCurrentInitialState(t *testing.T) {
	env := newTestEnv(t, location.NewSource(nil))
	status, body := env.do(t, http.MethodGet, "/api/v1/weather/current", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	want := map[string]any{
		"phase":       "idle",
		"loading":     false,
		"temperature": "--°",
		"unit":        "°C",
		"location":    "Unknown Location",
		"condition":   "unknown",
		"icon":        "questionmark.circle.fill",
		"todayHigh":   "--°",
		"error":       nil,
		"response":    nil,
	}
	for key, value := range want {
		if body[key] != value {
			t.Errorf("%s = %v, want %v", key, body[key], value)
		}
	}
	if daily, ok := body["daily"].([]any); !ok || len(daily) != 0 {
		t.Errorf("daily = %v, want empty list", body["daily"])
	}
}

func TestRefreshWithoutCoordinate(t *testing.T) {
	env := newTestEnv(t, location.NewSource(nil))
	status, body := env.do(t, http.MethodPost, "/api/v1/weather/refresh", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["phase"] != "failed" {
		t.Fatalf("phase = %v", body["phase"])
	}
	errBody, _ := body["error"].(map[string]any)
	if errBody["kind"] != "location_unavailable" || errBody["message"] != "Location not available" {
		t.Fatalf("error = %v", body["error"])
	}
}

func TestLoadAcceptedThenReady(t *testing.T) {
	env := newTestEnv(t, location.NewStaticSource(weather.Coordinate{Latitude: 37.7749, Longitude: -122.4194}))
	env.provider.release = make(chan struct{})

	status, body := env.do(t, http.MethodPost, "/api/v1/weather/load", "")
	if status != http.StatusAccepted || body["loading"] != true {
		t.Fatalf("load = %d %v, want 202 loading", status, body)
	}

	close(env.provider.release)
	env.session.Wait()

	status, body = env.do(t, http.MethodGet, "/api/v1/weather/current", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	want := map[string]any{
		"phase":       "ready",
		"temperature": "23°",
		"location":    "America/Los Angeles",
		"condition":   "clear",
		"label":       "Clear",
		"icon":        "sun.max.fill",
		"todayHigh":   "25°",
		"todayLow":    "18°",
	}
	for key, value := range want {
		if body[key] != value {
			t.Errorf("%s = %v, want %v", key, body[key], value)
		}
	}
	if daily, ok := body["daily"].([]any); !ok || len(daily) != 1 {
		t.Errorf("daily = %v", body["daily"])
	}
	if env.history.Len() != 1 {
		t.Errorf("history entries = %d, want 1", env.history.Len())
	}
}

func TestPutLocationValidation(t *testing.T) {
	env := newTestEnv(t, location.NewSource(nil))

	for _, body := range []string{
		`{"latitude": 91, "longitude": 0}`,
		`{"latitude": 10}`,
		`{"latitude": 10, "longitude": -181}`,
		`not json`,
	} {
		status, resp := env.do(t, http.MethodPut, "/api/v1/location", body)
		if status != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, status)
		}
		if resp["error"] != true {
			t.Errorf("body %s: expected error envelope, got %v", body, resp)
		}
	}
}

func TestPutAndDeleteLocation(t *testing.T) {
	env := newTestEnv(t, location.NewSource(nil))

	status, body := env.do(t, http.MethodPut, "/api/v1/location", `{"latitude": 0, "longitude": 0}`)
	if status != http.StatusOK || body["permission"] != "granted_foreground" {
		t.Fatalf("put = %d %v", status, body)
	}
	coord, _ := body["coordinate"].(map[string]any)
	if coord["latitude"] != 0.0 || coord["longitude"] != 0.0 {
		t.Fatalf("coordinate = %v", body["coordinate"])
	}

	status, body = env.do(t, http.MethodDelete, "/api/v1/location", "")
	if status != http.StatusOK || body["permission"] != "denied" || body["coordinate"] != nil {
		t.Fatalf("delete = %d %v", status, body)
	}

	_, body = env.do(t, http.MethodPost, "/api/v1/weather/load", "")
	errBody, _ := body["error"].(map[string]any)
	if errBody["kind"] != "location_denied" {
		t.Fatalf("load after revoke error = %v", body["error"])
	}
}

func TestHistoryValidation(t *testing.T) {
	env := newTestEnv(t, location.NewSource(nil))

	cases := map[string]int{
		"/api/v1/weather/history":                                                   http.StatusBadRequest,
		"/api/v1/weather/history?from=yesterday&to=today":                           http.StatusBadRequest,
		"/api/v1/weather/history?from=2024-01-15T12:00:00Z&to=2024-01-15T11:00:00Z": http.StatusBadRequest,
		"/api/v1/weather/history?from=2024-01-15T11:00:00Z&to=2024-01-15T12:00:00Z": http.StatusNotFound,
		"/api/v1/weather/history?from=1705316400&to=1705320000":                     http.StatusNotFound,
	}
	for target, want := range cases {
		if status, _ := env.do(t, http.MethodGet, target, ""); status != want {
			t.Errorf("%s: status = %d, want %d", target, status, want)
		}
	}
}

func TestHistoryReturnsObservations(t *testing.T) {
	env := newTestEnv(t, location.NewSource(nil))
	env.do(t, http.MethodPost, "/api/v1/weather/refresh", "")

	from := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	to := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	status, body := env.do(t, http.MethodGet, "/api/v1/weather/history?from="+from+"&to="+to, "")
	if status != http.StatusOK {
		t.Fatalf("status = %d %v", status, body)
	}
	observations, _ := body["observations"].([]any)
	if len(observations) != 1 {
		t.Fatalf("observations = %v", body["observations"])
	}
	first, _ := observations[0].(map[string]any)
	if first["errorKind"] != "location_unavailable" || first["phase"] != "failed" {
		t.Fatalf("observation = %v", first)
	}
}

func TestConditions(t *testing.T) {
	env := newTestEnv(t, location.NewSource(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/conditions", nil)
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	var list []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 11 {
		t.Fatalf("conditions = %d, want 11", len(list))
	}
	if list[0]["condition"] != "clear" || list[0]["icon"] != "sun.max.fill" || list[0]["label"] != "Clear" {
		t.Fatalf("first condition = %v", list[0])
	}
	if list[3]["condition"] != "overcast" || list[3]["icon"] != "smoke.fill" {
		t.Fatalf("overcast entry = %v", list[3])
	}
}

func TestClassifyCode(t *testing.T) {
	env := newTestEnv(t, location.NewSource(nil))

	status, body := env.do(t, http.MethodGet, "/api/v1/conditions/3", "")
	if status != http.StatusOK || body["condition"] != "cloudy" {
		t.Fatalf("code 3 = %d %v", status, body)
	}
	status, body = env.do(t, http.MethodGet, "/api/v1/conditions/42", "")
	if status != http.StatusOK || body["condition"] != "unknown" {
		t.Fatalf("code 42 = %d %v", status, body)
	}
	status, body = env.do(t, http.MethodGet, "/api/v1/conditions/abc", "")
	if status != http.StatusBadRequest || body["message"] != "weather code must be an integer" {
		t.Fatalf("code abc = %d %v", status, body)
	}
}
