package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-now/internal/store"
	"github.com/i474232898/weather-now/internal/weather"
)

var validate = validator.New()

// Session is the part of weather.Session the API drives.
type Session interface {
	State() weather.State
	Load()
	Refresh()
}

// Locator lets clients set or revoke the device coordinate.
type Locator interface {
	CurrentCoordinate() (weather.Coordinate, bool)
	PermissionState() weather.Permission
	Set(coord weather.Coordinate)
	Revoke()
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, session Session, locator Locator, history weather.Store) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		return c.JSON(NewWeatherView(session.State()))
	})

	v1.Post("/weather/load", func(c *fiber.Ctx) error {
		session.Load()
		return respondState(c, session.State())
	})

	v1.Post("/weather/refresh", func(c *fiber.Ctx) error {
		session.Refresh()
		return respondState(c, session.State())
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		observations, err := history.Range(req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
		}

		return c.JSON(fiber.Map{
			"from":         req.From,
			"to":           req.To,
			"observations": observations,
		})
	})

	v1.Get("/location", func(c *fiber.Ctx) error {
		return c.JSON(newLocationView(locator))
	})

	v1.Put("/location", func(c *fiber.Ctx) error {
		var req coordinateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		locator.Set(weather.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude})
		return c.JSON(newLocationView(locator))
	})

	v1.Delete("/location", func(c *fiber.Ctx) error {
		locator.Revoke()
		return c.JSON(newLocationView(locator))
	})

	v1.Get("/conditions", func(c *fiber.Ctx) error {
		conditions := weather.Conditions()
		out := make([]conditionView, 0, len(conditions))
		for _, cond := range conditions {
			out = append(out, conditionView{Condition: cond, ConditionMetadata: cond.Metadata()})
		}
		return c.JSON(out)
	})

	v1.Get("/conditions/:code", func(c *fiber.Ctx) error {
		code, err := strconv.Atoi(c.Params("code"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "weather code must be an integer")
		}
		cond := weather.Classify(weather.WeatherCode(code))
		return c.JSON(conditionView{Condition: cond, ConditionMetadata: cond.Metadata()})
	})
}

// respondState answers 202 while a fetch is still in flight.
func respondState(c *fiber.Ctx, st weather.State) error {
	status := fiber.StatusOK
	if st.IsLoading {
		status = fiber.StatusAccepted
	}
	return c.Status(status).JSON(NewWeatherView(st))
}

func newLocationView(locator Locator) locationView {
	v := locationView{Permission: locator.PermissionState()}
	if coord, ok := locator.CurrentCoordinate(); ok {
		v.Coordinate = &coord
	}
	return v
}

// coordinateRequest is the body of PUT /location.
type coordinateRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
