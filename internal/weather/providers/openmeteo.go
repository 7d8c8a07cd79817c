package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-now/internal/weather"
)

// DefaultForecastURL is the public Open-Meteo forecast endpoint.
const DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

// maxBodyBytes caps the forecast body; a one-day forecast is a few hundred bytes.
const maxBodyBytes = 1 << 20

var errBodyTooLarge = errors.New("response body exceeds size limit")

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// It makes one attempt per Fetch and never retries.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	maxBody int64
}

// Option customizes an OpenMeteoProvider.
type Option func(*OpenMeteoProvider)

// WithBaseURL points the provider at another forecast endpoint.
func WithBaseURL(u string) Option {
	return func(p *OpenMeteoProvider) {
		p.baseURL = u
	}
}

// WithCircuitBreaker guards the transport with cb.
func WithCircuitBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(p *OpenMeteoProvider) {
		p.circuit = cb
	}
}

func NewOpenMeteoProvider(client *http.Client, opts ...Option) *OpenMeteoProvider {
	p := &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: DefaultForecastURL,
		client:  client,
		maxBody: maxBodyBytes,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Fetch retrieves the current conditions and today's forecast for coord.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, coord weather.Coordinate) (weather.ForecastResponse, error) {
	req, err := p.buildRequest(ctx, coord)
	if err != nil {
		return weather.ForecastResponse{}, err
	}

	resp, err := doRequest(p.client, p.circuit, req)
	if err != nil {
		return weather.ForecastResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return weather.ForecastResponse{}, weather.NewUnexpectedStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBody+1))
	if err != nil {
		return weather.ForecastResponse{}, weather.NewTransportFailure(fmt.Errorf("read body: %w", err))
	}
	if int64(len(body)) > p.maxBody {
		return weather.ForecastResponse{}, weather.NewMalformedPayload(fmt.Errorf("%w (%d bytes)", errBodyTooLarge, p.maxBody))
	}

	return weather.DecodeForecast(body)
}

func (p *OpenMeteoProvider) buildRequest(ctx context.Context, coord weather.Coordinate) (*http.Request, error) {
	if !isFinite(coord.Latitude) || !isFinite(coord.Longitude) {
		return nil, weather.NewInvalidRequest(fmt.Errorf("coordinate (%v, %v) is not finite", coord.Latitude, coord.Longitude))
	}

	u, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, weather.NewInvalidRequest(err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, weather.NewInvalidRequest(fmt.Errorf("forecast endpoint %q is not absolute", p.baseURL))
	}

	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	values.Set("current", "temperature_2m,weather_code")
	values.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min")
	values.Set("timezone", "auto")
	values.Set("forecast_days", "1")
	u.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, weather.NewInvalidRequest(err)
	}
	return req, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
