package httpapi

import (
	"github.com/i474232898/weather-now/internal/weather"
)

type ErrorView struct {
	Kind    weather.ErrorKind `json:"kind"`
	Message string            `json:"message"`
}

// WeatherView is the display-ready projection of a session state, shared by
// the API and the CLI.
type WeatherView struct {
	Phase       weather.Phase             `json:"phase"`
	Loading     bool                      `json:"loading"`
	Temperature string                    `json:"temperature"`
	Unit        string                    `json:"unit"`
	Location    string                    `json:"location"`
	Condition   weather.Condition         `json:"condition"`
	Label       string                    `json:"label"`
	Icon        string                    `json:"icon"`
	Gradient    weather.Gradient          `json:"gradient"`
	TodayHigh   string                    `json:"todayHigh"`
	TodayLow    string                    `json:"todayLow"`
	Error       *ErrorView                `json:"error"`
	Daily       []weather.DaySummary      `json:"daily"`
	Response    *weather.ForecastResponse `json:"response"`
}

func NewWeatherView(st weather.State) WeatherView {
	v := WeatherView{
		Phase:       st.Phase(),
		Loading:     st.IsLoading,
		Temperature: st.DisplayTemperature(),
		Unit:        st.TemperatureUnitLabel(),
		Location:    st.LocationLabel(),
		Condition:   st.Condition,
		Label:       st.ConditionLabel(),
		Icon:        st.IconToken(),
		Gradient:    st.Gradient(),
		TodayHigh:   st.TodayHigh(),
		TodayLow:    st.TodayLow(),
		Daily:       []weather.DaySummary{},
		Response:    st.Response,
	}
	if st.Err != nil {
		v.Error = &ErrorView{Kind: st.ErrorKind(), Message: st.ErrorMessage()}
	}
	if st.Response != nil {
		v.Daily = weather.SummarizeDaily(*st.Response)
	}
	return v
}

type conditionView struct {
	Condition weather.Condition `json:"condition"`
	weather.ConditionMetadata
}

type locationView struct {
	Permission weather.Permission  `json:"permission"`
	Coordinate *weather.Coordinate `json:"coordinate"`
}
