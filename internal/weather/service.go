package weather

import (
	"context"
	"fmt"
	"time"
)

// Geocoder resolves a free-text city name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (Coordinates, error)
}

// HourlyProvider fetches an hourly forecast for a position.
type HourlyProvider interface {
	FetchHourly(ctx context.Context, lat, lon float64) (HourlySeries, error)
}

// hourlyHorizon caps how many hourly entries a summary carries per variable.
const hourlyHorizon = 24

// Service composes geocoding and forecast retrieval into a Summary.
// Persistence of the lookup (history, popularity) is the caller's concern.
type Service struct {
	geo      Geocoder
	provider HourlyProvider

	// now is swappable in tests.
	now func() time.Time
}

// NewService creates a new Service.
func NewService(geo Geocoder, provider HourlyProvider) *Service {
	return &Service{
		geo:      geo,
		provider: provider,
		now:      time.Now,
	}
}

// BuildSummary resolves the city, fetches the hourly series and shapes the
// current + next-24-hours payload. A geocoding miss propagates unchanged so
// the endpoint layer can map it to a client error.
func (s *Service) BuildSummary(ctx context.Context, city string) (Summary, error) {
	coords, err := s.geo.Geocode(ctx, city)
	if err != nil {
		return Summary{}, err
	}

	series, err := s.provider.FetchHourly(ctx, coords.Lat, coords.Lon)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch hourly forecast: %w", err)
	}

	idx := s.currentIndex(series)

	return Summary{
		City: city,
		Current: CurrentConditions{
			Temperature: valueAt(series.Temperature, idx),
			Humidity:    int(valueAt(series.Humidity, idx)),
			WindSpeed:   valueAt(series.WindSpeed, idx),
			WeatherCode: int(valueAt(series.WeatherCode, idx)),
		},
		Hourly: HourlyBlock{
			Temperature: truncate(series.Temperature),
			Humidity:    truncate(series.Humidity),
			WeatherCode: truncate(series.WeatherCode),
			WindSpeed:   truncate(series.WindSpeed),
		},
	}, nil
}

// hourlyTimeLayout is the time format Open-Meteo uses for hourly entries.
const hourlyTimeLayout = "2006-01-02T15:04"

// currentIndex picks the series index that corresponds to "now" at the
// location. It matches the provider's own timestamps against the current
// hour shifted by the reported UTC offset; positional hour-of-day indexing
// is only a fallback when no timestamp matches.
func (s *Service) currentIndex(series HourlySeries) int {
	local := s.now().UTC().Add(time.Duration(series.UTCOffset) * time.Second)
	target := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, time.UTC).
		Format(hourlyTimeLayout)

	for i, ts := range series.Times {
		if ts == target {
			return i
		}
	}
	return local.Hour()
}

// valueAt reads arr[idx] defensively: an empty array yields 0 and an
// out-of-range index clamps to the last entry.
func valueAt(arr []float64, idx int) float64 {
	if len(arr) == 0 {
		return 0
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(arr) {
		idx = len(arr) - 1
	}
	return arr[idx]
}

// truncate returns the first 24 entries, never nil so empty variables
// marshal as [] rather than null.
func truncate(arr []float64) []float64 {
	if len(arr) > hourlyHorizon {
		arr = arr[:hourlyHorizon]
	}
	out := make([]float64, len(arr))
	copy(out, arr)
	return out
}
