package cli

import (
	"fmt"
	"log"
	"time"

	"ferryclock/internal/adapters/metrics"
	"ferryclock/internal/adapters/wsf"
	"ferryclock/internal/application/assembly"
	"ferryclock/internal/domain/ferry"
	"ferryclock/internal/infrastructure/config"
)

// buildAssembler wires the upstream client and assembler from configuration.
func buildAssembler(cfg *config.Config, catalog *ferry.Catalog) (*assembly.Assembler, error) {
	client, err := wsf.NewClientWithConfig(
		cfg.Upstream.AccessCode,
		cfg.Upstream.BaseURL,
		cfg.Upstream.Retry.MaxAttempts,
		cfg.Upstream.Retry.BackoffBase,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream client: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Upstream.Timezone)
	if err != nil {
		log.Printf("timezone %q unavailable, using local time: %v", cfg.Upstream.Timezone, err)
		loc = time.Local
	}

	assembler := assembly.NewAssembler(
		catalog,
		ferry.NewTerminalResolver(),
		client,
		nil,
		loc,
		cfg.Cache.TTL,
	)

	if metrics.IsEnabled() {
		upstream := metrics.NewUpstreamMetricsCollector()
		_ = upstream.Register()
		client.SetRecorder(upstream)

		snapshots := metrics.NewSnapshotMetricsCollector()
		_ = snapshots.Register()
		assembler.SetRecorder(snapshots)
	}

	return assembler, nil
}
