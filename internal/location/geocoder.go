package location

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-now/internal/weather"
)

// geocode is swapped out in tests.
var geocode = geocoder.Geocoding

// Address is the place resolved by a GeocodingAcquirer.
type Address struct {
	City    string
	Country string
}

func (a Address) String() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{a.City, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// GeocodingAcquirer resolves a fixed address to a coordinate using the
// Google geocoding API.
type GeocodingAcquirer struct {
	address Address
}

// NewGeocodingAcquirer configures the geocoder with apiKey.
func NewGeocodingAcquirer(apiKey string, address Address) (*GeocodingAcquirer, error) {
	if apiKey == "" {
		return nil, errors.New("location: geocoder API key is empty")
	}
	if address.String() == "" {
		return nil, errors.New("location: geocoding address is empty")
	}
	geocoder.ApiKey = apiKey
	return &GeocodingAcquirer{address: address}, nil
}

func (g *GeocodingAcquirer) Acquire(ctx context.Context) (weather.Coordinate, error) {
	type result struct {
		loc geocoder.Location
		err error
	}
	done := make(chan result, 1)
	go func() {
		loc, err := geocode(geocoder.Address{City: g.address.City, Country: g.address.Country})
		done <- result{loc, err}
	}()

	select {
	case <-ctx.Done():
		return weather.Coordinate{}, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return weather.Coordinate{}, fmt.Errorf("geocode %q: %w", g.address, r.err)
		}
		return weather.Coordinate{Latitude: r.loc.Latitude, Longitude: r.loc.Longitude}, nil
	}
}
