// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Lookups counts weather lookup requests, successful or not.
	Lookups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_lookups_total",
		Help: "Total number of weather lookup requests.",
	})

	// GeocodeMisses counts lookups for cities the geocoder could not resolve.
	GeocodeMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_geocode_miss_total",
		Help: "Total number of lookups that failed city resolution.",
	})

	// UpstreamErrors counts failed calls to the geocoding or weather provider
	// after retries were exhausted.
	UpstreamErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_upstream_errors_total",
		Help: "Total number of upstream provider failures.",
	})

	// StoreErrors counts failed history or popularity writes.
	StoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_store_errors_total",
		Help: "Total number of persistence failures.",
	})
)
