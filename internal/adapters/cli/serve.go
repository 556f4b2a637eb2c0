package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ferryclock/internal/adapters/httpserver"
	"ferryclock/internal/adapters/metrics"
	"ferryclock/internal/domain/ferry"
	"ferryclock/internal/infrastructure/config"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server exposing per-route snapshots.

Endpoints:
  GET /api/routes          Route catalog
  GET /api/state/{routeId} Dot-state snapshot for a route
  GET /healthz             Liveness probe
  GET /metrics             Prometheus metrics (when enabled)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if cfg.Metrics.Enabled {
				metrics.InitRegistry()
			}

			catalog := ferry.DefaultCatalog()
			assembler, err := buildAssembler(cfg, catalog)
			if err != nil {
				return err
			}

			server := httpserver.New(httpserver.Config{
				Host:            cfg.Server.Host,
				Port:            cfg.Server.Port,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
			}, catalog, assembler)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				log.Printf("received %s, shutting down", sig)
			}

			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown failed: %w", err)
			}
			return <-errCh
		},
	}

	return cmd
}
