package metrics

import "github.com/prometheus/client_golang/prometheus"

// UpstreamMetricsCollector handles all upstream feed request metrics.
// It satisfies the upstream client's RequestRecorder interface.
type UpstreamMetricsCollector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
}

// NewUpstreamMetricsCollector creates a new upstream metrics collector
func NewUpstreamMetricsCollector() *UpstreamMetricsCollector {
	return &UpstreamMetricsCollector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_requests_total",
				Help:      "Total upstream feed requests by feed and outcome",
			},
			[]string{"feed", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_request_duration_seconds",
				Help:      "Upstream feed request duration distribution, retries included",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 4.0, 8.0, 16.0},
			},
			[]string{"feed"},
		),
		retriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "upstream_retries_total",
				Help:      "Total upstream retry attempts by feed and reason",
			},
			[]string{"feed", "reason"},
		),
	}
}

// Register registers all upstream metrics with the Prometheus registry
func (c *UpstreamMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	collectors := []prometheus.Collector{
		c.requestsTotal,
		c.requestDuration,
		c.retriesTotal,
	}

	for _, collector := range collectors {
		if err := Registry.Register(collector); err != nil {
			return err
		}
	}

	return nil
}

// RecordUpstreamRequest records a completed upstream request
func (c *UpstreamMetricsCollector) RecordUpstreamRequest(feed, outcome string, duration float64) {
	c.requestsTotal.WithLabelValues(feed, outcome).Inc()
	c.requestDuration.WithLabelValues(feed).Observe(duration)
}

// RecordUpstreamRetry records one retry attempt
func (c *UpstreamMetricsCollector) RecordUpstreamRetry(feed, reason string) {
	c.retriesTotal.WithLabelValues(feed, reason).Inc()
}
