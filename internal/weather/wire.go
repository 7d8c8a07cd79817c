package weather

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// The wire types mirror the provider's snake_case payload. Every field is a
// pointer so that absence and null can be told apart from zero values;
// `required` then enforces presence.

type wireForecast struct {
	Latitude             *float64          `json:"latitude" validate:"required"`
	Longitude            *float64          `json:"longitude" validate:"required"`
	GenerationTimeMs     *float64          `json:"generationtime_ms" validate:"required"`
	UTCOffsetSeconds     *int              `json:"utc_offset_seconds" validate:"required"`
	Timezone             *string           `json:"timezone" validate:"required"`
	TimezoneAbbreviation *string           `json:"timezone_abbreviation" validate:"required"`
	Elevation            *float64          `json:"elevation" validate:"required"`
	CurrentUnits         *wireCurrentUnits `json:"current_units" validate:"required"`
	Current              *wireCurrent      `json:"current" validate:"required"`
	DailyUnits           *wireDailyUnits   `json:"daily_units" validate:"required"`
	Daily                *wireDaily        `json:"daily" validate:"required"`
}

type wireCurrentUnits struct {
	Time          *string `json:"time" validate:"required"`
	Interval      *string `json:"interval" validate:"required"`
	Temperature2m *string `json:"temperature_2m" validate:"required"`
	WeatherCode   *string `json:"weather_code" validate:"required"`
}

type wireCurrent struct {
	Time          *string  `json:"time" validate:"required"`
	Interval      *int     `json:"interval" validate:"required"`
	Temperature2m *float64 `json:"temperature_2m" validate:"required"`
	WeatherCode   *int     `json:"weather_code" validate:"required"`
}

type wireDailyUnits struct {
	Time             *string `json:"time" validate:"required"`
	WeatherCode      *string `json:"weather_code" validate:"required"`
	Temperature2mMax *string `json:"temperature_2m_max" validate:"required"`
	Temperature2mMin *string `json:"temperature_2m_min" validate:"required"`
}

// Elements are pointers too: a null inside a daily sequence is as malformed
// as a missing field.
type wireDaily struct {
	Time             []*string  `json:"time" validate:"required,dive,required"`
	WeatherCode      []*int     `json:"weather_code" validate:"required,dive,required"`
	Temperature2mMax []*float64 `json:"temperature_2m_max" validate:"required,dive,required"`
	Temperature2mMin []*float64 `json:"temperature_2m_min" validate:"required,dive,required"`
}

var validate = validator.New()

// DecodeForecast strictly decodes a provider payload. Any missing, null or
// mistyped field, or daily sequences of unequal length, yields a
// KindMalformedPayload error.
func DecodeForecast(data []byte) (ForecastResponse, error) {
	var w wireForecast
	if err := json.Unmarshal(data, &w); err != nil {
		return ForecastResponse{}, NewMalformedPayload(err)
	}
	if err := validate.Struct(w); err != nil {
		return ForecastResponse{}, NewMalformedPayload(fmt.Errorf("missing required field: %w", err))
	}

	d := w.Daily
	n := len(d.Time)
	if len(d.WeatherCode) != n || len(d.Temperature2mMax) != n || len(d.Temperature2mMin) != n {
		return ForecastResponse{}, NewMalformedPayload(fmt.Errorf(
			"daily sequences differ in length: time=%d weather_code=%d temperature_2m_max=%d temperature_2m_min=%d",
			n, len(d.WeatherCode), len(d.Temperature2mMax), len(d.Temperature2mMin)))
	}

	dates := make([]string, n)
	codes := make([]WeatherCode, n)
	maxima := make([]float64, n)
	minima := make([]float64, n)
	for i := 0; i < n; i++ {
		dates[i] = *d.Time[i]
		codes[i] = WeatherCode(*d.WeatherCode[i])
		maxima[i] = *d.Temperature2mMax[i]
		minima[i] = *d.Temperature2mMin[i]
	}

	return ForecastResponse{
		Location: ForecastLocation{
			Latitude:         *w.Latitude,
			Longitude:        *w.Longitude,
			Elevation:        *w.Elevation,
			TimezoneName:     *w.Timezone,
			TimezoneAbbrev:   *w.TimezoneAbbreviation,
			UTCOffsetSeconds: *w.UTCOffsetSeconds,
		},
		GenerationTimeMs: *w.GenerationTimeMs,
		Current: CurrentWeather{
			Timestamp:       *w.Current.Time,
			IntervalSeconds: *w.Current.Interval,
			TemperatureC:    *w.Current.Temperature2m,
			WeatherCode:     WeatherCode(*w.Current.WeatherCode),
		},
		CurrentUnits: CurrentUnits{
			Time:        *w.CurrentUnits.Time,
			Interval:    *w.CurrentUnits.Interval,
			Temperature: *w.CurrentUnits.Temperature2m,
			WeatherCode: *w.CurrentUnits.WeatherCode,
		},
		DailyUnits: DailyUnits{
			Time:           *w.DailyUnits.Time,
			WeatherCode:    *w.DailyUnits.WeatherCode,
			TemperatureMax: *w.DailyUnits.Temperature2mMax,
			TemperatureMin: *w.DailyUnits.Temperature2mMin,
		},
		Daily: DailyForecast{
			Dates:        dates,
			WeatherCodes: codes,
			TempMax:      maxima,
			TempMin:      minima,
		},
	}, nil
}

// EncodeForecast renders r in the provider's wire shape.
func EncodeForecast(r ForecastResponse) ([]byte, error) {
	codes := make([]*int, len(r.Daily.WeatherCodes))
	for i, c := range r.Daily.WeatherCodes {
		code := int(c)
		codes[i] = &code
	}
	currentCode := int(r.Current.WeatherCode)

	w := wireForecast{
		Latitude:             &r.Location.Latitude,
		Longitude:            &r.Location.Longitude,
		GenerationTimeMs:     &r.GenerationTimeMs,
		UTCOffsetSeconds:     &r.Location.UTCOffsetSeconds,
		Timezone:             &r.Location.TimezoneName,
		TimezoneAbbreviation: &r.Location.TimezoneAbbrev,
		Elevation:            &r.Location.Elevation,
		CurrentUnits: &wireCurrentUnits{
			Time:          &r.CurrentUnits.Time,
			Interval:      &r.CurrentUnits.Interval,
			Temperature2m: &r.CurrentUnits.Temperature,
			WeatherCode:   &r.CurrentUnits.WeatherCode,
		},
		Current: &wireCurrent{
			Time:          &r.Current.Timestamp,
			Interval:      &r.Current.IntervalSeconds,
			Temperature2m: &r.Current.TemperatureC,
			WeatherCode:   &currentCode,
		},
		DailyUnits: &wireDailyUnits{
			Time:             &r.DailyUnits.Time,
			WeatherCode:      &r.DailyUnits.WeatherCode,
			Temperature2mMax: &r.DailyUnits.TemperatureMax,
			Temperature2mMin: &r.DailyUnits.TemperatureMin,
		},
		Daily: &wireDaily{
			Time:             pointers(r.Daily.Dates),
			WeatherCode:      codes,
			Temperature2mMax: pointers(r.Daily.TempMax),
			Temperature2mMin: pointers(r.Daily.TempMin),
		},
	}
	return json.Marshal(w)
}

// pointers never returns nil, so empty sequences encode as [].
func pointers[T any](s []T) []*T {
	out := make([]*T, len(s))
	for i := range s {
		out[i] = &s[i]
	}
	return out
}
