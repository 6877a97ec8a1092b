package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	coords Coordinates
	err    error
}

func (s stubGeocoder) Geocode(ctx context.Context, city string) (Coordinates, error) {
	return s.coords, s.err
}

type stubProvider struct {
	series HourlySeries
	err    error
}

func (s stubProvider) FetchHourly(ctx context.Context, lat, lon float64) (HourlySeries, error) {
	return s.series, s.err
}

// fixedService returns a Service whose clock is pinned to ts (UTC).
func fixedService(geo Geocoder, p HourlyProvider, ts time.Time) *Service {
	svc := NewService(geo, p)
	svc.now = func() time.Time { return ts }
	return svc
}

func hourlySeries(n int, offset int, start time.Time) HourlySeries {
	s := HourlySeries{UTCOffset: offset}
	for i := 0; i < n; i++ {
		s.Times = append(s.Times, start.Add(time.Duration(i)*time.Hour).Format(hourlyTimeLayout))
		s.Temperature = append(s.Temperature, float64(i))
		s.Humidity = append(s.Humidity, float64(50+i))
		s.WeatherCode = append(s.WeatherCode, float64(i%4))
		s.WindSpeed = append(s.WindSpeed, float64(i)/2)
	}
	return s
}

func TestBuildSummaryTruncatesTo24Hours(t *testing.T) {
	start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	series := hourlySeries(168, 0, start)

	svc := fixedService(stubGeocoder{}, stubProvider{series: series}, start)
	sum, err := svc.BuildSummary(context.Background(), "Moscow")
	require.NoError(t, err)

	assert.Equal(t, "Moscow", sum.City)
	assert.Len(t, sum.Hourly.Temperature, 24)
	assert.Len(t, sum.Hourly.Humidity, 24)
	assert.Len(t, sum.Hourly.WeatherCode, 24)
	assert.Len(t, sum.Hourly.WindSpeed, 24)
}

func TestBuildSummaryCurrentMatchesTimestamp(t *testing.T) {
	// Series starts at local midnight; clock reads 14:30 UTC at a UTC+3
	// location, so the matching entry is 17:00 local (index 17).
	start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	series := hourlySeries(48, 3*3600, start)

	now := time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)
	svc := fixedService(stubGeocoder{}, stubProvider{series: series}, now)

	sum, err := svc.BuildSummary(context.Background(), "Moscow")
	require.NoError(t, err)
	assert.Equal(t, float64(17), sum.Current.Temperature)
	assert.Equal(t, 67, sum.Current.Humidity)
	assert.Equal(t, 17%4, sum.Current.WeatherCode)
}

func TestBuildSummaryCurrentFallsBackToHourOfDay(t *testing.T) {
	// Timestamps that never match force the positional fallback.
	series := hourlySeries(24, 0, time.Date(2001, 1, 1, 0, 30, 0, 0, time.UTC))

	now := time.Date(2026, 8, 31, 5, 0, 0, 0, time.UTC)
	svc := fixedService(stubGeocoder{}, stubProvider{series: series}, now)

	sum, err := svc.BuildSummary(context.Background(), "Moscow")
	require.NoError(t, err)
	assert.Equal(t, float64(5), sum.Current.Temperature)
}

func TestBuildSummaryEmptySeriesDefaultsToZero(t *testing.T) {
	svc := fixedService(stubGeocoder{}, stubProvider{series: HourlySeries{}}, time.Now())

	sum, err := svc.BuildSummary(context.Background(), "Moscow")
	require.NoError(t, err)

	assert.Equal(t, CurrentConditions{}, sum.Current)
	assert.NotNil(t, sum.Hourly.Temperature)
	assert.Empty(t, sum.Hourly.Temperature)
	assert.Empty(t, sum.Hourly.Humidity)
}

func TestBuildSummaryPropagatesGeocodeError(t *testing.T) {
	notFound := errors.New("city not found")
	svc := fixedService(stubGeocoder{err: notFound}, stubProvider{}, time.Now())

	_, err := svc.BuildSummary(context.Background(), "zzzzxxxqqq123")
	assert.ErrorIs(t, err, notFound)
}

func TestBuildSummaryWrapsProviderError(t *testing.T) {
	svc := fixedService(stubGeocoder{}, stubProvider{err: errors.New("boom")}, time.Now())

	_, err := svc.BuildSummary(context.Background(), "Moscow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch hourly forecast")
}
