package weather

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

const samplePayload = `{
  "latitude": 37.7749,
  "longitude": -122.4194,
  "generationtime_ms": 0.123,
  "utc_offset_seconds": -28800,
  "timezone": "America/Los_Angeles",
  "timezone_abbreviation": "PST",
  "elevation": 56.0,
  "current_units": {"time": "iso8601", "interval": "seconds", "temperature_2m": "°C", "weather_code": "wmo code"},
  "current": {"time": "2024-01-15T12:00", "interval": 900, "temperature_2m": 22.5, "weather_code": 0},
  "daily_units": {"time": "iso8601", "weather_code": "wmo code", "temperature_2m_max": "°C", "temperature_2m_min": "°C"},
  "daily": {"time": ["2024-01-15"], "weather_code": [0], "temperature_2m_max": [25.0], "temperature_2m_min": [18.0]}
}`

func sampleResponse() ForecastResponse {
	return ForecastResponse{
		Location: ForecastLocation{
			Latitude:         37.7749,
			Longitude:        -122.4194,
			Elevation:        56.0,
			TimezoneName:     "America/Los_Angeles",
			TimezoneAbbrev:   "PST",
			UTCOffsetSeconds: -28800,
		},
		GenerationTimeMs: 0.123,
		Current: CurrentWeather{
			Timestamp:       "2024-01-15T12:00",
			IntervalSeconds: 900,
			TemperatureC:    22.5,
			WeatherCode:     0,
		},
		CurrentUnits: CurrentUnits{Time: "iso8601", Interval: "seconds", Temperature: "°C", WeatherCode: "wmo code"},
		DailyUnits:   DailyUnits{Time: "iso8601", WeatherCode: "wmo code", TemperatureMax: "°C", TemperatureMin: "°C"},
		Daily: DailyForecast{
			Dates:        []string{"2024-01-15"},
			WeatherCodes: []WeatherCode{0},
			TempMax:      []float64{25.0},
			TempMin:      []float64{18.0},
		},
	}
}

func TestDecodeForecast(t *testing.T) {
	got, err := DecodeForecast([]byte(samplePayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, sampleResponse()) {
		t.Fatalf("decoded value mismatch:\n got %+v\nwant %+v", got, sampleResponse())
	}
	if got.Condition() != ConditionClear {
		t.Errorf("condition = %s, want clear", got.Condition())
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := sampleResponse()
	in.Current.WeatherCode = 63
	in.Daily = DailyForecast{
		Dates:        []string{"2024-01-15", "2024-01-16"},
		WeatherCodes: []WeatherCode{63, 3},
		TempMax:      []float64{12.5, 14},
		TempMin:      []float64{-0.5, 2},
	}

	data, err := EncodeForecast(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeForecast(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n in %+v\nout %+v", in, out)
	}
}

func TestEncodeUsesWireKeys(t *testing.T) {
	data, err := EncodeForecast(sampleResponse())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{
		"latitude", "longitude", "generationtime_ms", "utc_offset_seconds", "timezone",
		"timezone_abbreviation", "elevation", "current_units", "current", "daily_units", "daily",
	} {
		if _, ok := raw[key]; !ok {
			t.Errorf("encoded payload missing key %q", key)
		}
	}
}

func TestDecodeForecastRejectsMalformedPayloads(t *testing.T) {
	cases := map[string]string{
		"not json":            `not json`,
		"truncated":           samplePayload[:len(samplePayload)/2],
		"missing timezone":    strings.Replace(samplePayload, `"timezone": "America/Los_Angeles",`, "", 1),
		"null elevation":      strings.Replace(samplePayload, `"elevation": 56.0`, `"elevation": null`, 1),
		"missing daily":       strings.Replace(samplePayload, `"daily": {"time"`, `"other": {"time"`, 1),
		"missing code":        strings.Replace(samplePayload, `"temperature_2m": 22.5, "weather_code": 0`, `"temperature_2m": 22.5`, 1),
		"string temperature":  strings.Replace(samplePayload, `"temperature_2m": 22.5`, `"temperature_2m": "warm"`, 1),
		"fractional code":     strings.Replace(samplePayload, `"weather_code": 0}`, `"weather_code": 1.5}`, 1),
		"missing unit":        strings.Replace(samplePayload, `"interval": "seconds", `, "", 1),
		"uneven daily arrays": strings.Replace(samplePayload, `"temperature_2m_min": [18.0]`, `"temperature_2m_min": [18.0, 17.0]`, 1),
		"null daily code":     strings.Replace(samplePayload, `"weather_code": [0]`, `"weather_code": [null]`, 1),
		"null daily maximum":  strings.Replace(samplePayload, `"temperature_2m_max": [25.0]`, `"temperature_2m_max": [null]`, 1),
		"null daily minimum":  strings.Replace(samplePayload, `"temperature_2m_min": [18.0]`, `"temperature_2m_min": [null]`, 1),
		"null daily date":     strings.Replace(samplePayload, `"time": ["2024-01-15"]`, `"time": [null]`, 1),
		"null daily array":    strings.Replace(samplePayload, `"weather_code": [0]`, `"weather_code": null`, 1),
		"string daily code":   strings.Replace(samplePayload, `"weather_code": [0]`, `"weather_code": ["0"]`, 1),
		"empty object":        `{}`,
		"null":                `null`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeForecast([]byte(payload))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("expected malformed payload error, got %v", err)
			}
		})
	}
}

func TestDecodeForecastAcceptsZeroValues(t *testing.T) {
	payload := strings.NewReplacer(
		`"latitude": 37.7749`, `"latitude": 0`,
		`"utc_offset_seconds": -28800`, `"utc_offset_seconds": 0`,
		`"timezone_abbreviation": "PST"`, `"timezone_abbreviation": ""`,
	).Replace(samplePayload)

	got, err := DecodeForecast([]byte(payload))
	if err != nil {
		t.Fatalf("zero values are present values, got error: %v", err)
	}
	if got.Location.Latitude != 0 || got.Location.UTCOffsetSeconds != 0 || got.Location.TimezoneAbbrev != "" {
		t.Fatalf("unexpected location: %+v", got.Location)
	}
}

func TestDecodeForecastAcceptsEmptyDaily(t *testing.T) {
	payload := strings.Replace(samplePayload,
		`"daily": {"time": ["2024-01-15"], "weather_code": [0], "temperature_2m_max": [25.0], "temperature_2m_min": [18.0]}`,
		`"daily": {"time": [], "weather_code": [], "temperature_2m_max": [], "temperature_2m_min": []}`, 1)

	got, err := DecodeForecast([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Daily.Len() != 0 {
		t.Fatalf("daily = %+v, want no days", got.Daily)
	}
}
