package weather

// DaySummary is one calendar day of the daily forecast.
type DaySummary struct {
	Date      string      `json:"date"`
	Code      WeatherCode `json:"weatherCode"`
	Condition Condition   `json:"condition"`
	High      float64     `json:"temperatureMaxC"`
	Low       float64     `json:"temperatureMinC"`
}

// Len returns the number of days. Decoded forecasts always have sequences of
// equal length; for hand-built values the shortest sequence wins.
func (d DailyForecast) Len() int {
	n := len(d.Dates)
	for _, l := range []int{len(d.WeatherCodes), len(d.TempMax), len(d.TempMin)} {
		if l < n {
			n = l
		}
	}
	return n
}

// Day returns the i-th day, or false when i is out of range.
func (d DailyForecast) Day(i int) (DaySummary, bool) {
	if i < 0 || i >= d.Len() {
		return DaySummary{}, false
	}
	return DaySummary{
		Date:      d.Dates[i],
		Code:      d.WeatherCodes[i],
		Condition: Classify(d.WeatherCodes[i]),
		High:      d.TempMax[i],
		Low:       d.TempMin[i],
	}, true
}

// SummarizeDaily returns every day of r in order.
func SummarizeDaily(r ForecastResponse) []DaySummary {
	n := r.Daily.Len()
	days := make([]DaySummary, 0, n)
	for i := 0; i < n; i++ {
		day, _ := r.Daily.Day(i)
		days = append(days, day)
	}
	return days
}
