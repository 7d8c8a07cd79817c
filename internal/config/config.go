package config

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/weather-now/internal/weather"
	"github.com/i474232898/weather-now/internal/weather/providers"
)

type AppConfig struct {
	Port string

	// HTTPTimeout bounds every outbound forecast request.
	HTTPTimeout time.Duration
	ForecastURL string

	// RefreshInterval controls how often the session reloads (0 = disabled).
	RefreshInterval time.Duration

	// Coordinate is the static device position, nil when not configured.
	Coordinate *weather.Coordinate

	// Address geocoded when no static coordinate is set.
	LocationCity    string
	LocationCountry string
	GeocoderAPIKey  string

	Breaker BreakerConfig

	// Settle-log retention.
	HistoryMaxEntries int           // max number of observations (0 = unlimited)
	HistoryMaxAge     time.Duration // max age of observations (0 = unlimited)

	MQTT MQTTConfig
}

type BreakerConfig struct {
	Enabled     bool
	MaxFailures uint32
	OpenTimeout time.Duration
}

// Settings converts the config into provider breaker settings.
func (b BreakerConfig) Settings(name string) providers.BreakerConfig {
	return providers.BreakerConfig{Name: name, MaxFailures: b.MaxFailures, OpenTimeout: b.OpenTimeout}
}

type MQTTConfig struct {
	Enabled     bool
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

var defaults = map[string]string{
	"port":                     "8080",
	"http_timeout":             "10s",
	"forecast_url":             providers.DefaultForecastURL,
	"refresh_interval":         "15m",
	"weather_latitude":         "",
	"weather_longitude":        "",
	"weather_location_city":    "",
	"weather_location_country": "",
	"geocoder_api_key":         "",
	"breaker_enabled":          "true",
	"breaker_max_failures":     "5",
	"breaker_open_timeout":     "2m",
	"history_max_entries":      "96", // roughly 24h at 15-minute intervals
	"history_max_age":          "24h",
	"mqtt_enabled":             "false",
	"mqtt_broker":              "tcp://localhost:1883",
	"mqtt_client_id":           "weather-now",
	"mqtt_username":            "",
	"mqtt_password":            "",
	"mqtt_topic_prefix":        "weather",
}

// Load reads configuration from the environment, an optional .env file and
// an optional config file, with sensible defaults. Environment variables win
// over the config file.
func Load(configPath string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("weather-now")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	p := parser{v: v}
	cfg := &AppConfig{
		Port:              p.str("port"),
		HTTPTimeout:       p.duration("http_timeout"),
		ForecastURL:       p.str("forecast_url"),
		RefreshInterval:   p.duration("refresh_interval"),
		LocationCity:      p.str("weather_location_city"),
		LocationCountry:   p.str("weather_location_country"),
		GeocoderAPIKey:    p.str("geocoder_api_key"),
		HistoryMaxEntries: p.integer("history_max_entries"),
		HistoryMaxAge:     p.duration("history_max_age"),
		Breaker: BreakerConfig{
			Enabled:     p.boolean("breaker_enabled"),
			MaxFailures: uint32(p.integer("breaker_max_failures")),
			OpenTimeout: p.duration("breaker_open_timeout"),
		},
		MQTT: MQTTConfig{
			Enabled:     p.boolean("mqtt_enabled"),
			Broker:      p.str("mqtt_broker"),
			ClientID:    p.str("mqtt_client_id"),
			Username:    p.str("mqtt_username"),
			Password:    p.str("mqtt_password"),
			TopicPrefix: p.str("mqtt_topic_prefix"),
		},
	}
	cfg.Coordinate = p.coordinate("weather_latitude", "weather_longitude")

	if p.err != nil {
		return nil, p.err
	}
	if cfg.Breaker.MaxFailures == 0 {
		return nil, fmt.Errorf("invalid BREAKER_MAX_FAILURES: must be positive")
	}
	return cfg, nil
}

// parser reads typed values from v and keeps the first error.
type parser struct {
	v   *viper.Viper
	err error
}

func (p *parser) str(key string) string {
	return strings.TrimSpace(p.v.GetString(key))
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", strings.ToUpper(key), err)
	}
}

func (p *parser) duration(key string) time.Duration {
	d, err := time.ParseDuration(p.str(key))
	if err != nil {
		p.fail(key, err)
		return 0
	}
	if d < 0 {
		p.fail(key, fmt.Errorf("negative duration %s", d))
		return 0
	}
	return d
}

func (p *parser) integer(key string) int {
	n, err := strconv.Atoi(p.str(key))
	if err != nil {
		p.fail(key, err)
		return 0
	}
	if n < 0 {
		p.fail(key, fmt.Errorf("negative value %d", n))
		return 0
	}
	return n
}

func (p *parser) boolean(key string) bool {
	b, err := strconv.ParseBool(p.str(key))
	if err != nil {
		p.fail(key, err)
	}
	return b
}

func (p *parser) coordinate(latKey, lonKey string) *weather.Coordinate {
	lat, lon := p.str(latKey), p.str(lonKey)
	if lat == "" && lon == "" {
		return nil
	}
	if lat == "" || lon == "" {
		if p.err == nil {
			p.err = fmt.Errorf("%s and %s must be set together", strings.ToUpper(latKey), strings.ToUpper(lonKey))
		}
		return nil
	}

	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		p.fail(latKey, err)
		return nil
	}
	longitude, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		p.fail(lonKey, err)
		return nil
	}
	if !(latitude >= -90 && latitude <= 90) {
		p.fail(latKey, fmt.Errorf("%v out of range", latitude))
		return nil
	}
	if !(longitude >= -180 && longitude <= 180) {
		p.fail(lonKey, fmt.Errorf("%v out of range", longitude))
		return nil
	}
	return &weather.Coordinate{Latitude: latitude, Longitude: longitude}
}
