// Package metrics exposes Prometheus collectors for reloads and sampling.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the playground's Prometheus instruments. All methods are
// safe for concurrent use; the underlying collectors synchronize
// internally.
type Metrics struct {
	reloads          *prometheus.CounterVec
	activeGeneration prometheus.Gauge
	graphNodes       prometheus.Gauge
	sampleDuration   prometheus.Histogram
	sampledCells     prometheus.Counter
}

// New registers all collectors with the given registry and returns the
// bundle. Pass prometheus.DefaultRegisterer for the global registry or a
// fresh prometheus.NewRegistry() for isolation in tests.
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "noisebench",
			Name:      "reloads_total",
			Help:      "Script reload attempts, by outcome.",
		}, []string{"status"}), // status: success, failure
		activeGeneration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "noisebench",
			Name:      "active_generation",
			Help:      "Sequence number of the currently published graph generation.",
		}),
		graphNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "noisebench",
			Name:      "graph_nodes",
			Help:      "Node count of the currently published graph generation.",
		}),
		sampleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "noisebench",
			Name:      "sample_duration_seconds",
			Help:      "Wall time of full region samples.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms .. ~4m
		}),
		sampledCells: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "noisebench",
			Name:      "sampled_cells_total",
			Help:      "Cumulative heightmap cells evaluated.",
		}),
	}
}

// RecordReload counts one reload attempt by outcome.
func (m *Metrics) RecordReload(success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	m.reloads.WithLabelValues(status).Inc()
}

// SetActiveGeneration publishes the sequence number of the live generation.
func (m *Metrics) SetActiveGeneration(seq uint64) {
	m.activeGeneration.Set(float64(seq))
}

// SetGraphNodes publishes the node count of the live generation.
func (m *Metrics) SetGraphNodes(n int) {
	m.graphNodes.Set(float64(n))
}

// ObserveSample records one completed region sample.
func (m *Metrics) ObserveSample(d time.Duration, cells int) {
	m.sampleDuration.Observe(d.Seconds())
	m.sampledCells.Add(float64(cells))
}
