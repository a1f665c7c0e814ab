package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the flight board
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Backing service calls
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec

	// Entity store
	StoreLoadsTotal      *prometheus.CounterVec
	StoreLoadDuration    prometheus.Histogram
	StoreStaleDiscards   prometheus.Counter
	StoreCollectionSize  *prometheus.GaugeVec
	NormalizerDropsTotal *prometheus.CounterVec

	// Mutations
	MutationsTotal *prometheus.CounterVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
}

// NewMetricsRegistry registers every metric on reg. The server passes
// prometheus.DefaultRegisterer; tests pass a fresh prometheus.NewRegistry().
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	f := promauto.With(reg)

	return &MetricsRegistry{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightboard_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightboard_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flightboard_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		UpstreamRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightboard_upstream_requests_total",
				Help: "Requests sent to the flight operations service by endpoint and outcome",
			},
			[]string{"endpoint", "method", "outcome"},
		),
		UpstreamRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightboard_upstream_request_duration_seconds",
				Help:    "Flight operations service latency in seconds",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),

		StoreLoadsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightboard_store_loads_total",
				Help: "Entity store loads by scope and result",
			},
			[]string{"scope", "result"},
		),
		StoreLoadDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flightboard_store_load_duration_seconds",
				Help:    "Full entity store load time in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		StoreStaleDiscards: f.NewCounter(
			prometheus.CounterOpts{
				Name: "flightboard_store_stale_discards_total",
				Help: "Load completions discarded because a newer load already committed",
			},
		),
		StoreCollectionSize: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flightboard_store_collection_size",
				Help: "Records held per collection in the current snapshot",
			},
			[]string{"collection"},
		),
		NormalizerDropsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightboard_normalizer_drops_total",
				Help: "Records or payloads repaired by normalization, by collection and reason",
			},
			[]string{"collection", "reason"},
		),

		MutationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightboard_mutations_total",
				Help: "Create/update/delete attempts by kind, operation and result",
			},
			[]string{"kind", "op", "result"},
		),

		CacheHitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightboard_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightboard_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
	}
}
