package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dmpolyakov/weather-backend/internal/weather"
	"github.com/sony/gobreaker"
)

// hourlyVariables are the forecast variables requested from Open-Meteo, in
// the order they come back.
const hourlyVariables = "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m"

// OpenMeteoProvider fetches hourly forecasts from the Open-Meteo API. The
// API needs no key; requests go through the shared caching client so repeat
// lookups for the same coordinates are answered from disk within the TTL.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates the provider with retry, backoff and a
// circuit breaker around the forecast endpoint.
func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      5,
				InitialInterval: 200 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchHourly retrieves the hourly series for the given coordinates in the
// location's own timezone.
func (p *OpenMeteoProvider) FetchHourly(ctx context.Context, lat, lon float64) (weather.HourlySeries, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("hourly", hourlyVariables)
		values.Set("timezone", "auto")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.HourlySeries{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		UTCOffsetSeconds int `json:"utc_offset_seconds"`
		Hourly           struct {
			Time        []string  `json:"time"`
			Temperature []float64 `json:"temperature_2m"`
			Humidity    []float64 `json:"relative_humidity_2m"`
			WeatherCode []float64 `json:"weather_code"`
			WindSpeed   []float64 `json:"wind_speed_10m"`
		} `json:"hourly"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.HourlySeries{}, fmt.Errorf("openmeteo decode: %w", err)
	}

	return weather.HourlySeries{
		Times:       payload.Hourly.Time,
		Temperature: payload.Hourly.Temperature,
		Humidity:    payload.Hourly.Humidity,
		WeatherCode: payload.Hourly.WeatherCode,
		WindSpeed:   payload.Hourly.WindSpeed,
		UTCOffset:   payload.UTCOffsetSeconds,
	}, nil
}
