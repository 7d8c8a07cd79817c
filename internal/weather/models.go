package weather

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// WeatherCode is a WMO weather interpretation code (0-99).
type WeatherCode int

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// ForecastLocation describes where the forecast grid point is and its timezone.
type ForecastLocation struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Elevation        float64 `json:"elevation"`
	TimezoneName     string  `json:"timezoneName"`
	TimezoneAbbrev   string  `json:"timezoneAbbrev"`
	UTCOffsetSeconds int     `json:"utcOffsetSeconds"`
}

// CurrentWeather is the "current" block of a forecast.
// Timestamp is ISO-8601 local time without a zone suffix, as sent by the provider.
type CurrentWeather struct {
	Timestamp       string      `json:"timestamp"`
	IntervalSeconds int         `json:"intervalSeconds"`
	TemperatureC    float64     `json:"temperatureC"`
	WeatherCode     WeatherCode `json:"weatherCode"`
}

// CurrentUnits carries the provider's unit labels for the current block.
type CurrentUnits struct {
	Time        string `json:"time"`
	Interval    string `json:"interval"`
	Temperature string `json:"temperature"`
	WeatherCode string `json:"weatherCode"`
}

// DailyUnits carries the provider's unit labels for the daily block.
type DailyUnits struct {
	Time           string `json:"time"`
	WeatherCode    string `json:"weatherCode"`
	TemperatureMax string `json:"temperatureMax"`
	TemperatureMin string `json:"temperatureMin"`
}

// DailyForecast holds parallel per-day sequences; index i across all of them
// describes the same calendar day.
type DailyForecast struct {
	Dates        []string      `json:"dates"`
	WeatherCodes []WeatherCode `json:"weatherCodes"`
	TempMax      []float64     `json:"tempMax"`
	TempMin      []float64     `json:"tempMin"`
}

// ForecastResponse is the decoded forecast payload. It is replaced wholesale on
// every successful fetch.
type ForecastResponse struct {
	Location         ForecastLocation `json:"location"`
	GenerationTimeMs float64          `json:"generationTimeMs"`
	Current          CurrentWeather   `json:"current"`
	CurrentUnits     CurrentUnits     `json:"currentUnits"`
	DailyUnits       DailyUnits       `json:"dailyUnits"`
	Daily            DailyForecast    `json:"daily"`
}

// Condition classifies the current weather code.
func (r ForecastResponse) Condition() Condition {
	return Classify(r.Current.WeatherCode)
}

// Observation is one settled session outcome, kept in the history store.
type Observation struct {
	ID           uuid.UUID    `json:"id"`
	RecordedAt   time.Time    `json:"recordedAt"` // always UTC
	Phase        Phase        `json:"phase"`
	Condition    Condition    `json:"condition"`
	TemperatureC *float64     `json:"temperatureC,omitempty"`
	ObservedAt   string       `json:"observedAt,omitempty"`
	Timezone     string       `json:"timezone,omitempty"`
	WeatherCode  *WeatherCode `json:"weatherCode,omitempty"`
	ErrorKind    ErrorKind    `json:"errorKind,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// NewObservation snapshots a settled state.
func NewObservation(st State, at time.Time) Observation {
	obs := Observation{
		ID:         uuid.New(),
		RecordedAt: at.UTC(),
		Phase:      st.Phase(),
		Condition:  st.Condition,
	}
	if st.Response != nil {
		temp := st.Response.Current.TemperatureC
		code := st.Response.Current.WeatherCode
		obs.TemperatureC = &temp
		obs.WeatherCode = &code
		obs.ObservedAt = st.Response.Current.Timestamp
		obs.Timezone = st.Response.Location.TimezoneName
	}
	if st.Err != nil {
		obs.ErrorKind = KindOf(st.Err)
		obs.Error = st.Err.Error()
	}
	return obs
}
