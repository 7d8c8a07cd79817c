package weather

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionPartlyCloudy Condition = "partly_cloudy"
	ConditionCloudy       Condition = "cloudy"
	ConditionOvercast     Condition = "overcast"
	ConditionFog          Condition = "fog"
	ConditionDrizzle      Condition = "drizzle"
	ConditionRain         Condition = "rain"
	ConditionHeavyRain    Condition = "heavy_rain"
	ConditionSnow         Condition = "snow"
	ConditionThunderstorm Condition = "thunderstorm"
	ConditionUnknown      Condition = "unknown"
)

// Classify maps a WMO weather code to a Condition. Unmapped codes are ConditionUnknown.
// Overcast is never produced here; code 3 is Cloudy.
func Classify(code WeatherCode) Condition {
	switch code {
	case 0:
		return ConditionClear
	case 1, 2:
		return ConditionPartlyCloudy
	case 3:
		return ConditionCloudy
	case 45, 48:
		return ConditionFog
	case 51, 53, 55, 56, 57:
		return ConditionDrizzle
	case 61, 63, 66, 67, 80, 81, 82:
		return ConditionRain
	case 65:
		return ConditionHeavyRain
	case 71, 73, 75, 77, 85, 86:
		return ConditionSnow
	case 95, 96, 99:
		return ConditionThunderstorm
	default:
		return ConditionUnknown
	}
}

// ColorStop is one end of a background gradient.
type ColorStop struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// Gradient is an ordered pair of color stops, start first.
type Gradient [2]ColorStop

// ConditionMetadata is the static visual description of a Condition.
type ConditionMetadata struct {
	Label    string   `json:"label"`
	Icon     string   `json:"icon"`
	Gradient Gradient `json:"gradient"`
}

var (
	gradientClear        = Gradient{{"blue", 0.8}, {"yellow", 0.6}}
	gradientPartlyCloudy = Gradient{{"blue", 0.6}, {"gray", 0.4}}
	gradientCloudy       = Gradient{{"gray", 0.8}, {"gray", 0.6}}
	gradientFog          = Gradient{{"gray", 0.7}, {"white", 0.8}}
	gradientWet          = Gradient{{"gray", 0.9}, {"blue", 0.7}}
	gradientSnow         = Gradient{{"white", 0.9}, {"blue", 0.3}}
	gradientThunderstorm = Gradient{{"black", 0.8}, {"purple", 0.6}}
	gradientUnknown      = Gradient{{"gray", 0.5}, {"gray", 0.3}}
)

var conditionMetadata = map[Condition]ConditionMetadata{
	ConditionClear:        {Label: "Clear", Icon: "sun.max.fill", Gradient: gradientClear},
	ConditionPartlyCloudy: {Label: "Partly Cloudy", Icon: "cloud.sun.fill", Gradient: gradientPartlyCloudy},
	ConditionCloudy:       {Label: "Cloudy", Icon: "cloud.fill", Gradient: gradientCloudy},
	ConditionOvercast:     {Label: "Overcast", Icon: "smoke.fill", Gradient: gradientCloudy},
	ConditionFog:          {Label: "Fog", Icon: "cloud.fog.fill", Gradient: gradientFog},
	ConditionDrizzle:      {Label: "Drizzle", Icon: "cloud.drizzle.fill", Gradient: gradientWet},
	ConditionRain:         {Label: "Rain", Icon: "cloud.rain.fill", Gradient: gradientWet},
	ConditionHeavyRain:    {Label: "Heavy Rain", Icon: "cloud.heavyrain.fill", Gradient: gradientWet},
	ConditionSnow:         {Label: "Snow", Icon: "cloud.snow.fill", Gradient: gradientSnow},
	ConditionThunderstorm: {Label: "Thunderstorm", Icon: "cloud.bolt.rain.fill", Gradient: gradientThunderstorm},
	ConditionUnknown:      {Label: "Unknown", Icon: "questionmark.circle.fill", Gradient: gradientUnknown},
}

// Metadata returns the icon, label and gradient for c. Values outside the
// enum get the metadata of ConditionUnknown.
func (c Condition) Metadata() ConditionMetadata {
	if m, ok := conditionMetadata[c]; ok {
		return m
	}
	return conditionMetadata[ConditionUnknown]
}

func (c Condition) Label() string {
	return c.Metadata().Label
}

// Valid reports whether c is one of the declared conditions.
func (c Condition) Valid() bool {
	_, ok := conditionMetadata[c]
	return ok
}

// Conditions lists every condition in declaration order.
func Conditions() []Condition {
	return []Condition{
		ConditionClear,
		ConditionPartlyCloudy,
		ConditionCloudy,
		ConditionOvercast,
		ConditionFog,
		ConditionDrizzle,
		ConditionRain,
		ConditionHeavyRain,
		ConditionSnow,
		ConditionThunderstorm,
		ConditionUnknown,
	}
}

// ParseCondition resolves the string form of a condition. Unrecognized input
// yields ConditionUnknown and false.
func ParseCondition(s string) (Condition, bool) {
	c := Condition(s)
	if !c.Valid() {
		return ConditionUnknown, false
	}
	return c, true
}
