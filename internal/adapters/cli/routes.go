package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ferryclock/internal/domain/ferry"
)

// NewRoutesCommand creates the routes command
func NewRoutesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the supported routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := ferry.DefaultCatalog()

			fmt.Printf("%-8s %-30s %-20s %-15s %s\n",
				"ROUTE", "DESCRIPTION", "WEST", "EAST", "CROSSING")
			for _, r := range catalog.ListRoutes() {
				fmt.Printf("%-8d %-30s %-20s %-15s %dm\n",
					r.RouteID, r.Description, r.WestName, r.EastName, r.CrossingMinutes)
			}

			return nil
		},
	}

	return cmd
}
