package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ferryclock/internal/adapters/metrics"
)

func TestRegister_NoOpWhenDisabled(t *testing.T) {
	// Arrange
	metrics.Registry = nil

	// Act - recording against an unregistered collector must not panic
	upstream := metrics.NewUpstreamMetricsCollector()
	require.NoError(t, upstream.Register())
	upstream.RecordUpstreamRequest("vessels", "ok", 0.12)
	upstream.RecordUpstreamRetry("vessels", "status_503")

	snapshots := metrics.NewSnapshotMetricsCollector()
	require.NoError(t, snapshots.Register())
	snapshots.RecordSnapshot("live", 0.05)
	snapshots.RecordLaneSource(1, "live")

	// Assert
	assert.False(t, metrics.IsEnabled())
}

func TestRegister_CollectsWhenEnabled(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	defer func() { metrics.Registry = nil }()

	upstream := metrics.NewUpstreamMetricsCollector()
	require.NoError(t, upstream.Register())
	snapshots := metrics.NewSnapshotMetricsCollector()
	require.NoError(t, snapshots.Register())

	// Act
	upstream.RecordUpstreamRequest("vessels", "ok", 0.12)
	snapshots.RecordSnapshot("partial", 0.3)
	snapshots.RecordLaneSource(2, "stale")

	// Assert
	families, err := metrics.GetRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["ferryclock_server_upstream_requests_total"])
	assert.True(t, names["ferryclock_server_snapshots_total"])
	assert.True(t, names["ferryclock_server_lane_sources_total"])
}

func TestRegister_DuplicateRegistrationFails(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	defer func() { metrics.Registry = nil }()

	first := metrics.NewUpstreamMetricsCollector()
	require.NoError(t, first.Register())

	// Act
	second := metrics.NewUpstreamMetricsCollector()
	err := second.Register()

	// Assert
	assert.Error(t, err)
}
