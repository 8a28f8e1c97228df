// Package metric provides Prometheus metrics for the mining pipeline.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "loghive"

// Registry holds all application metrics.
type Registry struct {
	// LinesProcessed counts lines accepted by the pipeline.
	LinesProcessed prometheus.Counter

	// ChangesTotal counts clustering outcomes by change type.
	ChangesTotal *prometheus.CounterVec

	// ClustersActive tracks the number of live clusters.
	ClustersActive prometheus.Gauge

	// SnapshotsTotal counts snapshots by trigger (structural, periodic).
	SnapshotsTotal *prometheus.CounterVec

	// SnapshotBytes records the size of the last written snapshot.
	SnapshotBytes prometheus.Gauge

	// ProcessDuration observes end-to-end per-line latency.
	ProcessDuration prometheus.Histogram

	reg *prometheus.Registry
}

// NewRegistry creates a metrics registry with all pipeline metrics
// registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		LinesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_processed_total",
			Help:      "Log lines processed by the mining pipeline.",
		}),
		ChangesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cluster_changes_total",
			Help:      "Clustering outcomes by change type.",
		}, []string{"change_type"}),
		ClustersActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "clusters_active",
			Help:      "Live clusters known to the engine.",
		}),
		SnapshotsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_total",
			Help:      "Snapshots written, by trigger.",
		}, []string{"trigger"}),
		SnapshotBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_bytes",
			Help:      "Size of the most recent snapshot in bytes.",
		}),
		ProcessDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "process_duration_seconds",
			Help:      "End-to-end per-line processing latency.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		reg: reg,
	}
}

// Handler returns an HTTP handler serving the registry in Prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// SnapshotTrigger maps a snapshot reason to its metric label: the
// periodic reason maps to "periodic", everything else is a structural
// change.
func SnapshotTrigger(reason string) string {
	if reason == "periodic" {
		return "periodic"
	}
	return "structural"
}
