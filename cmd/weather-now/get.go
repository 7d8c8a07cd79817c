package main

import (
	"encoding/json"
	"fmt"
	"io"

	httpapi "github.com/i474232898/weather-now/internal/api/http"
	"github.com/i474232898/weather-now/internal/config"
	"github.com/i474232898/weather-now/internal/weather"
)

type getOptions struct {
	lat, lon      float64
	hasCoordinate bool
	output        string
}

func runGet(w io.Writer, configPath string, opts getOptions) error {
	if opts.output != "text" && opts.output != "json" {
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.hasCoordinate {
		cfg.Coordinate = &weather.Coordinate{Latitude: opts.lat, Longitude: opts.lon}
	}

	rt := newRuntime(cfg)
	defer rt.Close()

	rt.session.Load()
	// An acquisition, if one started, triggers the actual load when it succeeds.
	rt.source.Wait()
	rt.session.Wait()

	st := rt.session.State()
	if st.Phase() == weather.PhaseIdle {
		if err := rt.source.LastError(); err != nil {
			return fmt.Errorf("%w: %v", weather.ErrLocationUnavailable, err)
		}
		return weather.ErrLocationUnavailable
	}

	if opts.output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(httpapi.NewWeatherView(st)); err != nil {
			return err
		}
		return st.Err
	}

	printState(w, st)
	return st.Err
}

func printState(w io.Writer, st weather.State) {
	fmt.Fprintf(w, "%s\n", st.LocationLabel())
	fmt.Fprintf(w, "%s%s  %s (%s)\n", st.DisplayTemperature(), unitSuffix(st), st.ConditionLabel(), st.IconToken())
	fmt.Fprintf(w, "H: %s  L: %s\n", st.TodayHigh(), st.TodayLow())
}

// unitSuffix drops the degree sign already printed with the temperature.
func unitSuffix(st weather.State) string {
	unit := st.TemperatureUnitLabel()
	if len(unit) > len("°") && unit[:len("°")] == "°" {
		return unit[len("°"):]
	}
	return ""
}
