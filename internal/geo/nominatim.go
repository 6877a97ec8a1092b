package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmpolyakov/weather-backend/internal/weather"
)

// ErrCityNotFound is returned when the geocoding provider has no match for
// the requested city. The endpoint layer maps it to a 404.
var ErrCityNotFound = errors.New("city not found")

// NominatimClient resolves city names via the OpenStreetMap Nominatim search
// API. Lookups are limited to the best match; there is no retry or caching
// here, a transient provider failure propagates as-is.
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatimClient creates a geocoder client. Nominatim's usage policy
// requires an identifying User-Agent on every request.
func NewNominatimClient(client *http.Client, baseURL, userAgent string) *NominatimClient {
	return &NominatimClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    client,
	}
}

// Geocode resolves a free-text city name to coordinates.
func (c *NominatimClient) Geocode(ctx context.Context, city string) (weather.Coordinates, error) {
	values := url.Values{}
	values.Set("q", city)
	values.Set("format", "json")
	values.Set("limit", "1")

	u := fmt.Sprintf("%s/search?%s", c.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return weather.Coordinates{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("geocoder request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return weather.Coordinates{}, fmt.Errorf("geocoder unexpected status: %d", resp.StatusCode)
	}

	// Nominatim returns lat/lon as strings inside a JSON array.
	var payload []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Coordinates{}, fmt.Errorf("geocoder decode: %w", err)
	}

	if len(payload) == 0 {
		return weather.Coordinates{}, ErrCityNotFound
	}

	lat, err := strconv.ParseFloat(payload[0].Lat, 64)
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("geocoder latitude %q: %w", payload[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(payload[0].Lon, 64)
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("geocoder longitude %q: %w", payload[0].Lon, err)
	}

	return weather.Coordinates{Lat: lat, Lon: lon}, nil
}
