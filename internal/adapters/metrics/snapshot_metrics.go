package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// SnapshotMetricsCollector handles snapshot assembly metrics.
// It satisfies the assembler's SnapshotRecorder interface.
type SnapshotMetricsCollector struct {
	snapshotsTotal   *prometheus.CounterVec
	assemblyDuration prometheus.Histogram
	laneSourcesTotal *prometheus.CounterVec
}

// NewSnapshotMetricsCollector creates a new snapshot metrics collector
func NewSnapshotMetricsCollector() *SnapshotMetricsCollector {
	return &SnapshotMetricsCollector{
		snapshotsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "snapshots_total",
				Help:      "Total snapshots assembled by fallback mode",
			},
			[]string{"mode"},
		),
		assemblyDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "assembly_duration_seconds",
				Help:      "Snapshot assembly duration distribution",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 4.0, 8.0, 16.0},
			},
		),
		laneSourcesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "lane_sources_total",
				Help:      "Lane data provenance by slot and source",
			},
			[]string{"slot", "source"},
		),
	}
}

// Register registers all snapshot metrics with the Prometheus registry
func (c *SnapshotMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	collectors := []prometheus.Collector{
		c.snapshotsTotal,
		c.assemblyDuration,
		c.laneSourcesTotal,
	}

	for _, collector := range collectors {
		if err := Registry.Register(collector); err != nil {
			return err
		}
	}

	return nil
}

// RecordSnapshot records one assembled snapshot
func (c *SnapshotMetricsCollector) RecordSnapshot(mode string, duration float64) {
	c.snapshotsTotal.WithLabelValues(mode).Inc()
	c.assemblyDuration.Observe(duration)
}

// RecordLaneSource records where one lane's data came from
func (c *SnapshotMetricsCollector) RecordLaneSource(slot int, source string) {
	c.laneSourcesTotal.WithLabelValues(strconv.Itoa(slot), source).Inc()
}
