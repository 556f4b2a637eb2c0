package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"ferryclock/internal/domain/ferry"
	"ferryclock/internal/infrastructure/config"
)

// NewSnapshotCommand creates the snapshot command
func NewSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot <routeId>",
		Short: "Fetch and print one dot-state snapshot",
		Long: `Fetch the three upstream feeds once, assemble the snapshot for the
given route and print it as JSON. Useful for checking credentials and
eyeballing the fused state without running the server.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			routeID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid route id %q", args[0])
			}

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			catalog := ferry.DefaultCatalog()
			assembler, err := buildAssembler(cfg, catalog)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			snapshot, err := assembler.BuildSnapshot(ctx, routeID)
			if err != nil {
				return fmt.Errorf("failed to assemble snapshot: %w", err)
			}

			out, err := json.MarshalIndent(snapshot, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			return nil
		},
	}

	return cmd
}
