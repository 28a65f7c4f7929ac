// Package metrics owns the Prometheus collectors. Everything registers on a
// private registry (not prometheus.DefaultRegistry) so tests can build as many
// instances as they like.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "promptlab"

// Metrics is safe to use as a nil pointer; every recorder is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	promptsCreated     prometheus.Counter
	promptsUpdated     *prometheus.CounterVec
	promptsDeleted     prometheus.Counter
	collectionsCreated prometheus.Counter
	collectionsDeleted prometheus.Counter
	cascadeDetached    prometheus.Counter
	tagsAdded          prometheus.Counter
	tagsRemoved        prometheus.Counter

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		promptsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompts_created_total",
			Help:      "Total number of prompts created.",
		}),
		promptsUpdated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompts_updated_total",
			Help:      "Total number of prompt updates, partitioned by kind (full, partial).",
		}, []string{"kind"}),
		promptsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompts_deleted_total",
			Help:      "Total number of prompts deleted.",
		}),
		collectionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collections_created_total",
			Help:      "Total number of collections created.",
		}),
		collectionsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collections_deleted_total",
			Help:      "Total number of collections deleted.",
		}),
		cascadeDetached: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cascade_detached_prompts_total",
			Help:      "Total number of prompts detached from a collection because it was deleted.",
		}),
		tagsAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tags_added_total",
			Help:      "Total number of tags attached to prompts (duplicates excluded).",
		}),
		tagsRemoved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tags_removed_total",
			Help:      "Total number of tags removed from prompts.",
		}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests, partitioned by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, partitioned by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) PromptCreated() {
	if m == nil {
		return
	}
	m.promptsCreated.Inc()
}

// PromptUpdated records an update; kind is "full" or "partial".
func (m *Metrics) PromptUpdated(kind string) {
	if m == nil {
		return
	}
	m.promptsUpdated.WithLabelValues(kind).Inc()
}

func (m *Metrics) PromptDeleted() {
	if m == nil {
		return
	}
	m.promptsDeleted.Inc()
}

func (m *Metrics) CollectionCreated() {
	if m == nil {
		return
	}
	m.collectionsCreated.Inc()
}

// CollectionDeleted records a deletion and how many prompts it detached.
func (m *Metrics) CollectionDeleted(detached int) {
	if m == nil {
		return
	}
	m.collectionsDeleted.Inc()
	m.cascadeDetached.Add(float64(detached))
}

// TagsAdded counts newly attached tags. Non-positive n is ignored, since a
// counter cannot go down.
func (m *Metrics) TagsAdded(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.tagsAdded.Add(float64(n))
}

func (m *Metrics) TagRemoved() {
	if m == nil {
		return
	}
	m.tagsRemoved.Inc()
}

// ObserveRequest records one finished HTTP request. route is the router
// pattern (e.g. "/prompts/{id}"), never the raw path, to keep cardinality low.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
