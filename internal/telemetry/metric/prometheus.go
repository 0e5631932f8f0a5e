// Package metric provides Prometheus metrics for grcbridge.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Session metrics
	Logins        prometheus.Counter
	LoginFailures prometheus.Counter

	// Vendor call metrics
	VendorCalls *prometheus.CounterVec

	// Retrieval metrics
	RetrievalStrategies *prometheus.CounterVec
	RetrievalFallbacks  prometheus.Counter
	RetrievalCapped     prometheus.Counter

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Masking metrics
	MaskedValues *prometheus.CounterVec

	// HTTP facade metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with all application metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,

		Logins: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "grcbridge",
			Name:      "logins_total",
			Help:      "Successful platform logins.",
		}),
		LoginFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "grcbridge",
			Name:      "login_failures_total",
			Help:      "Failed platform logins.",
		}),

		VendorCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grcbridge",
			Name:      "vendor_calls_total",
			Help:      "Outbound platform calls by kind and outcome.",
		}, []string{"kind", "outcome"}),

		RetrievalStrategies: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grcbridge",
			Name:      "retrieval_strategies_total",
			Help:      "Record retrievals by strategy taken.",
		}, []string{"strategy"}),
		RetrievalFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "grcbridge",
			Name:      "retrieval_fallbacks_total",
			Help:      "Strategy fallback transitions inside the retrieval engine.",
		}),
		RetrievalCapped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "grcbridge",
			Name:      "retrieval_capped_total",
			Help:      "Batched full fetches stopped by the iteration cap.",
		}),

		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grcbridge",
			Name:      "cache_hits_total",
			Help:      "Cache hits by cache name.",
		}, []string{"cache"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grcbridge",
			Name:      "cache_misses_total",
			Help:      "Cache misses by cache name.",
		}, []string{"cache"}),

		MaskedValues: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grcbridge",
			Name:      "masked_values_total",
			Help:      "Values rewritten by the masking engine, by category.",
		}, []string{"category"}),

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grcbridge",
			Name:      "http_requests_total",
			Help:      "HTTP facade requests by method, route, and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "grcbridge",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP facade request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Register adds an extra collector, such as the occupancy collector.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.reg.Register(c)
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Prometheus exposes the underlying registry, for tests and for
// mounting additional collectors.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.reg
}
