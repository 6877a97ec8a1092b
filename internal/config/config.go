package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds the process configuration, read from the environment.
type AppConfig struct {
	Port string

	// DBPath is the SQLite database file.
	DBPath string

	// CacheDir is the on-disk HTTP response cache for the weather provider.
	CacheDir string
	// CacheTTL is how long a cached forecast response stays fresh.
	CacheTTL time.Duration
	// CacheSweepInterval controls how often expired cache entries are pruned.
	CacheSweepInterval time.Duration

	// HTTPTimeout applies to every outbound provider call.
	HTTPTimeout time.Duration

	GeocoderBaseURL   string
	WeatherBaseURL    string
	GeocoderUserAgent string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.DBPath = getenvDefault("DB_PATH", "database.db")
	cfg.CacheDir = getenvDefault("CACHE_DIR", ".cache")

	ttl, err := getenvDuration("CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = ttl

	sweep, err := getenvDuration("CACHE_SWEEP_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}
	cfg.CacheSweepInterval = sweep

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	cfg.GeocoderBaseURL = getenvDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org")
	cfg.WeatherBaseURL = getenvDefault("WEATHER_BASE_URL", "https://api.open-meteo.com/v1/forecast")
	cfg.GeocoderUserAgent = getenvDefault("GEOCODER_USER_AGENT", "weather-backend/1.0")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
