// Package metrics exposes Prometheus counters for sync activity.
//
// A nil *Collector is valid and records nothing, so components can take an
// optional collector without branching at every call site.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "doubleblind"

// Mutation outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collector owns a private registry and the doubleblind counters.
type Collector struct {
	registry *prometheus.Registry

	pagesFetched    prometheus.Counter
	pageFailures    prometheus.Counter
	searchRequests  prometheus.Counter
	searchFailures  prometheus.Counter
	searchDropped   prometheus.Counter
	mutations       *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates a collector with every metric registered on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		pagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      "Number of pages fetched by the paginated fetcher.",
		}),
		pageFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_failures_total",
			Help:      "Number of paginated fetches aborted by a failing page.",
		}),
		searchRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Number of search requests issued after debounce.",
		}),
		searchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_failures_total",
			Help:      "Number of current search requests that failed.",
		}),
		searchDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_stale_dropped_total",
			Help:      "Number of search outcomes discarded because a newer query superseded them.",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Mutations submitted, grouped by kind and outcome.",
		}, []string{"kind", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of remote operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	c.registry.MustRegister(
		c.pagesFetched,
		c.pageFailures,
		c.searchRequests,
		c.searchFailures,
		c.searchDropped,
		c.mutations,
		c.requestDuration,
		collectors.NewGoCollector(),
	)

	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}

	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}

	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) PageFetched() {
	if c == nil {
		return
	}
	c.pagesFetched.Inc()
}

func (c *Collector) PageFailed() {
	if c == nil {
		return
	}
	c.pageFailures.Inc()
}

func (c *Collector) SearchIssued() {
	if c == nil {
		return
	}
	c.searchRequests.Inc()
}

func (c *Collector) SearchFailed() {
	if c == nil {
		return
	}
	c.searchFailures.Inc()
}

// SearchDropped counts a superseded search outcome.
func (c *Collector) SearchDropped() {
	if c == nil {
		return
	}
	c.searchDropped.Inc()
}

// Mutation counts one submitted mutation.
func (c *Collector) Mutation(kind string, ok bool) {
	if c == nil {
		return
	}

	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeFailure
	}

	c.mutations.WithLabelValues(kind, outcome).Inc()
}

// ObserveDuration records the latency of a named operation in seconds.
func (c *Collector) ObserveDuration(operation string, seconds float64) {
	if c == nil {
		return
	}
	c.requestDuration.WithLabelValues(operation).Observe(seconds)
}

// Counters used by tests and the status view.

func (c *Collector) PagesFetched() prometheus.Counter   { return c.pagesFetched }
func (c *Collector) SearchRequests() prometheus.Counter { return c.searchRequests }
func (c *Collector) SearchDroppedCounter() prometheus.Counter {
	return c.searchDropped
}
func (c *Collector) Mutations() *prometheus.CounterVec { return c.mutations }
