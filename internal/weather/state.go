package weather

import (
	"math"
	"strconv"
	"strings"
)

const (
	placeholderTemperature = "--°"
	defaultUnitLabel       = "°C"
	fallbackLocationLabel  = "Unknown Location"
)

// Phase is the coarse lifecycle position of a session.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// State is a snapshot of a session. Response survives a failed fetch.
type State struct {
	Response  *ForecastResponse
	Condition Condition
	IsLoading bool
	Err       error
}

func (s State) Phase() Phase {
	switch {
	case s.IsLoading:
		return PhaseLoading
	case s.Err != nil:
		return PhaseFailed
	case s.Response != nil:
		return PhaseReady
	default:
		return PhaseIdle
	}
}

// ErrorKind returns the taxonomy tag of the stored error, if any.
func (s State) ErrorKind() ErrorKind {
	return KindOf(s.Err)
}

// ErrorMessage returns the human-readable description of the stored error, or "".
func (s State) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// DisplayTemperature is the current temperature rounded to a whole degree, e.g. "23°".
func (s State) DisplayTemperature() string {
	if s.Response == nil {
		return placeholderTemperature
	}
	return formatDegrees(s.Response.Current.TemperatureC)
}

func (s State) TemperatureUnitLabel() string {
	if s.Response == nil {
		return defaultUnitLabel
	}
	return s.Response.CurrentUnits.Temperature
}

// LocationLabel is the forecast timezone name made readable ("America/Los Angeles").
func (s State) LocationLabel() string {
	if s.Response == nil {
		return fallbackLocationLabel
	}
	return strings.ReplaceAll(s.Response.Location.TimezoneName, "_", " ")
}

func (s State) IconToken() string {
	return s.Condition.Metadata().Icon
}

func (s State) Gradient() Gradient {
	return s.Condition.Metadata().Gradient
}

func (s State) ConditionLabel() string {
	return s.Condition.Label()
}

// TodayHigh formats the first day's maximum, or the placeholder.
func (s State) TodayHigh() string {
	if day, ok := s.today(); ok {
		return formatDegrees(day.High)
	}
	return placeholderTemperature
}

// TodayLow formats the first day's minimum, or the placeholder.
func (s State) TodayLow() string {
	if day, ok := s.today(); ok {
		return formatDegrees(day.Low)
	}
	return placeholderTemperature
}

func (s State) today() (DaySummary, bool) {
	if s.Response == nil {
		return DaySummary{}, false
	}
	return s.Response.Daily.Day(0)
}

// formatDegrees rounds half away from zero and never prints "-0°".
func formatDegrees(v float64) string {
	r := math.Round(v)
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', 0, 64) + "°"
}
