package main

import (
	"log"
	"net/http"

	"github.com/i474232898/weather-now/internal/config"
	"github.com/i474232898/weather-now/internal/location"
	"github.com/i474232898/weather-now/internal/store"
	"github.com/i474232898/weather-now/internal/weather"
	"github.com/i474232898/weather-now/internal/weather/providers"
)

// runtime holds the wired core shared by every command.
type runtime struct {
	session *weather.Session
	source  *location.Source
	history *store.MemoryStore
}

func newRuntime(cfg *config.AppConfig) *runtime {
	// Shared HTTP client for outbound forecast calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	opts := []providers.Option{providers.WithBaseURL(cfg.ForecastURL)}
	if cfg.Breaker.Enabled {
		opts = append(opts, providers.WithCircuitBreaker(providers.NewCircuitBreaker(cfg.Breaker.Settings("openmeteo"))))
	}
	provider := providers.NewOpenMeteoProvider(httpClient, opts...)

	source := newLocationSource(cfg)
	session := weather.NewSession(provider, source)

	// Re-run the load once a coordinate becomes known.
	source.OnAcquired(func(weather.Coordinate) {
		session.Load()
	})

	history := store.NewMemoryStore(cfg.HistoryMaxEntries, cfg.HistoryMaxAge)
	session.OnSettle(history.Recorder())

	return &runtime{session: session, source: source, history: history}
}

func newLocationSource(cfg *config.AppConfig) *location.Source {
	if cfg.Coordinate != nil {
		log.Printf("INFO: location: using configured coordinate %s", *cfg.Coordinate)
		return location.NewStaticSource(*cfg.Coordinate)
	}

	if cfg.GeocoderAPIKey == "" {
		return location.NewSource(nil)
	}
	acquirer, err := location.NewGeocodingAcquirer(cfg.GeocoderAPIKey, location.Address{
		City:    cfg.LocationCity,
		Country: cfg.LocationCountry,
	})
	if err != nil {
		log.Printf("INFO: location: geocoding disabled: %v", err)
		return location.NewSource(nil)
	}
	return location.NewSource(acquirer)
}

func (r *runtime) Close() {
	r.source.Close()
	r.session.Close()
}
