// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Log generation metrics
	LogGenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logbook_log_generations_total",
			Help: "Total log generation runs by result",
		},
		[]string{"result"},
	)

	LogGenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "logbook_log_generation_duration_seconds",
			Help:    "Duration of a full regenerate, persist, and summarize run",
			Buckets: prometheus.DefBuckets,
		},
	)

	GeneratedEntriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "logbook_generated_entries_total",
			Help: "Total log entries written by generation runs",
		},
	)

	SummariesWrittenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "logbook_daily_summaries_written_total",
			Help: "Total daily summaries upserted",
		},
	)

	// Geocoding metrics
	GeocodeLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logbook_geocode_lookups_total",
			Help: "Geocoding lookups by result (hit, miss, not_found, error)",
		},
		[]string{"result"},
	)

	GeocodeRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "logbook_geocode_request_duration_seconds",
			Help:    "Duration of upstream geocoding requests",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// Lock metrics
	TripLockWaitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "logbook_trip_lock_wait_seconds",
			Help:    "Time spent waiting for a per-trip lock",
			Buckets: []float64{.001, .01, .05, .1, .5, 1, 5, 30},
		},
	)
)

// Register adds all collectors plus the Go and process collectors to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		LogGenerationsTotal,
		LogGenerationDuration,
		GeneratedEntriesTotal,
		SummariesWrittenTotal,
		GeocodeLookupsTotal,
		GeocodeRequestDuration,
		TripLockWaitDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RegisterGeocodeCacheSize exports size, the number of labels currently in
// the geocode cache, as a gauge read at scrape time.
func RegisterGeocodeCacheSize(reg prometheus.Registerer, size func() int) {
	reg.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "logbook_geocode_cache_entries",
			Help: "Labels currently held in the geocode cache",
		},
		func() float64 { return float64(size()) },
	))
}

// Handler returns an HTTP handler serving the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
