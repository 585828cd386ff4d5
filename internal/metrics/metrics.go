// Package metrics exports scapegoat tree activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "griefer"

// Outcome label values for InsertsTotal.
const (
	OutcomeCreated = "created"
	OutcomeMerged  = "merged"
)

// TreeMetrics implements scapegoat.Observer on top of a private registry.
type TreeMetrics struct {
	registry *prometheus.Registry

	InsertsTotal  *prometheus.CounterVec
	RebuildsTotal prometheus.Counter
	RebuildNodes  prometheus.Histogram
	InsertDepth   prometheus.Histogram
	TreeNodes     prometheus.Gauge
	Queries       *prometheus.CounterVec
}

// New registers all tree metrics on a fresh registry, alongside the Go
// runtime and process collectors.
func New() *TreeMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &TreeMetrics{
		registry: registry,
		InsertsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inserts_total",
			Help:      "Number of bans inserted, by whether they created a key or merged into one",
		}, []string{"outcome"}),
		RebuildsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebuilds_total",
			Help:      "Number of scapegoat subtree rebuilds",
		}),
		RebuildNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rebuild_nodes",
			Help:      "Nodes relinked per scapegoat rebuild",
			Buckets:   prometheus.ExponentialBuckets(2, 4, 10),
		}),
		InsertDepth: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "insert_depth",
			Help:      "Depth at which new keys were linked, before any rebuild",
			Buckets:   prometheus.LinearBuckets(0, 4, 16),
		}),
		TreeNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tree_nodes",
			Help:      "Distinct keys held by the tree",
		}),
		Queries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Number of lookups answered, by result",
		}, []string{"result"}),
	}
}

// Inserted implements scapegoat.Observer.
func (m *TreeMetrics) Inserted(depth, size int) {
	m.InsertsTotal.WithLabelValues(OutcomeCreated).Inc()
	m.InsertDepth.Observe(float64(depth))
	m.TreeNodes.Set(float64(size))
}

// Merged implements scapegoat.Observer.
func (m *TreeMetrics) Merged() {
	m.InsertsTotal.WithLabelValues(OutcomeMerged).Inc()
}

// Rebuilt implements scapegoat.Observer.
func (m *TreeMetrics) Rebuilt(nodes, _ int) {
	m.RebuildsTotal.Inc()
	m.RebuildNodes.Observe(float64(nodes))
}

// ObserveQueries adds the results of a query run.
func (m *TreeMetrics) ObserveQueries(hits, misses int) {
	m.Queries.WithLabelValues("hit").Add(float64(hits))
	m.Queries.WithLabelValues("miss").Add(float64(misses))
}

// Registry returns the registry the metrics live on.
func (m *TreeMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *TreeMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
