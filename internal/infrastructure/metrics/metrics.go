// Package metrics exposes prometheus collectors for the HTTP API and the rate cache.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tripdesk"

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RateCacheLookupsTotal *prometheus.CounterVec
	RateFetchesTotal      *prometheus.CounterVec
	RateFetchDuration     *prometheus.HistogramVec
	ConversionsTotal      *prometheus.CounterVec
}

// NewMetrics registers every collector on a private registry together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		RateCacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_cache_lookups_total",
				Help:      "Rate cache lookups by result",
			},
			[]string{"result"},
		),

		RateFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_fetches_total",
				Help:      "Fetch attempts by outcome (live, stale, fallback)",
			},
			[]string{"outcome"},
		),

		RateFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rate_fetch_duration_seconds",
				Help:      "Duration of the fetch step including the upstream call",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"outcome"},
		),

		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Currency conversions served by source currency",
			},
			[]string{"from", "to"},
		),
	}
}

// ObserveCacheLookup records a cache hit or miss.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.RateCacheLookupsTotal.WithLabelValues(result).Inc()
}

// ObserveFetch records one run of the fetch step.
func (m *Metrics) ObserveFetch(outcome string, duration time.Duration) {
	m.RateFetchesTotal.WithLabelValues(outcome).Inc()
	m.RateFetchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveConversion counts one conversion between two catalog currencies.
func (m *Metrics) ObserveConversion(from, to string) {
	m.ConversionsTotal.WithLabelValues(from, to).Inc()
}

// ObserveHTTPRequest records one finished request. path must be the route
// template, not the raw URL, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTPRequest(path, method, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(path, method, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
