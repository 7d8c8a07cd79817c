package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-now/internal/weather"
)

// BreakerConfig controls the circuit breaker guarding a provider's transport.
type BreakerConfig struct {
	Name string
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before a probe is allowed.
	OpenTimeout time.Duration
}

var (
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// NewCircuitBreaker builds a breaker that trips after cfg.MaxFailures consecutive failures.
func NewCircuitBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: isBreakerSuccess,
	})
}

// isBreakerSuccess keeps caller cancellation from counting against the endpoint.
func isBreakerSuccess(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// doRequest performs exactly one HTTP attempt, through cb when it is set.
// Transport errors and 5xx responses count as breaker failures; an open
// circuit fails fast without touching the network. Every error returned is a
// *weather.Error.
func doRequest(client *http.Client, cb *gobreaker.CircuitBreaker, req *http.Request) (*http.Response, error) {
	if client == nil {
		return nil, weather.NewTransportFailure(errNoHTTPClient)
	}

	if cb == nil {
		resp, err := client.Do(req)
		if err != nil {
			return nil, weather.NewTransportFailure(err)
		}
		return resp, nil
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			return nil, weather.NewUnexpectedStatus(resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, weather.NewTransportFailure(fmt.Errorf("%w: %w", errCircuitOpen, err))
		}
		if weather.KindOf(err) == weather.KindUnexpectedStatus {
			return nil, err
		}
		return nil, weather.NewTransportFailure(err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, weather.NewTransportFailure(fmt.Errorf("unexpected result type from circuit breaker"))
	}
	return resp, nil
}
