package httpapi

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/dmpolyakov/weather-backend/internal/geo"
	"github.com/dmpolyakov/weather-backend/internal/metrics"
	"github.com/dmpolyakov/weather-backend/internal/weather"
)

var validate = validator.New()

// LookupStore is the persistence surface the endpoint layer needs: record
// the user's lookup and bump the city's popularity counter.
type LookupStore interface {
	RecordUserCity(ctx context.Context, userID, city string) error
	IncrementCityCounter(ctx context.Context, city string) error
}

// SummaryBuilder produces the weather summary for a city.
type SummaryBuilder interface {
	BuildSummary(ctx context.Context, city string) (weather.Summary, error)
}

// cityRequest is the POST body for a weather lookup.
type cityRequest struct {
	City string `json:"city" validate:"required"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, store LookupStore, service SummaryBuilder) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": `Weather API: use POST /weather/{user_id} with {"city": "<city name>"}`,
		})
	})

	app.Post("/weather/:user_id", func(c *fiber.Ctx) error {
		var req cityRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		userID := c.Params("user_id")
		ctx := c.UserContext()

		metrics.Lookups.Inc()

		// The lookup is recorded before the summary is built: a later
		// geocoding miss intentionally leaves the history and counter
		// writes in place.
		if err := store.RecordUserCity(ctx, userID, req.City); err != nil {
			metrics.StoreErrors.Inc()
			return fiber.NewError(fiber.StatusInternalServerError, "failed to record lookup")
		}
		if err := store.IncrementCityCounter(ctx, req.City); err != nil {
			metrics.StoreErrors.Inc()
			return fiber.NewError(fiber.StatusInternalServerError, "failed to record lookup")
		}

		summary, err := service.BuildSummary(ctx, req.City)
		if err != nil {
			if errors.Is(err, geo.ErrCityNotFound) {
				metrics.GeocodeMisses.Inc()
				return fiber.NewError(fiber.StatusNotFound, "city not found")
			}
			metrics.UpstreamErrors.Inc()
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}

		return c.JSON(summary)
	})
}
