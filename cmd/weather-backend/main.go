package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/dmpolyakov/weather-backend/internal/api/http"
	"github.com/dmpolyakov/weather-backend/internal/config"
	"github.com/dmpolyakov/weather-backend/internal/geo"
	"github.com/dmpolyakov/weather-backend/internal/scheduler"
	"github.com/dmpolyakov/weather-backend/internal/store"
	"github.com/dmpolyakov/weather-backend/internal/weather"
	"github.com/dmpolyakov/weather-backend/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// SQLite store; schema is created up front, before any request is served.
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer initCancel()
	if err := db.Init(initCtx); err != nil {
		log.Fatalf("failed to init store schema: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// The geocoder goes straight to the network; the weather provider goes
	// through the on-disk response cache.
	geocoder := geo.NewNominatimClient(httpClient, cfg.GeocoderBaseURL, cfg.GeocoderUserAgent)

	cachingClient := providers.NewCachingClient(httpClient, cfg.CacheDir, cfg.CacheTTL)
	provider := providers.NewOpenMeteoProvider(cachingClient, cfg.WeatherBaseURL)

	// Core service composing geocoding and forecast retrieval.
	service := weather.NewService(geocoder, provider)

	// Janitor that prunes expired disk-cache entries.
	janitor := scheduler.NewCacheJanitor(cfg.CacheDir, cfg.CacheTTL, cfg.CacheSweepInterval)
	if err := janitor.Start(); err != nil {
		log.Fatalf("failed to start cache janitor: %v", err)
	}
	defer janitor.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-backend",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-backend",
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, db, service)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
