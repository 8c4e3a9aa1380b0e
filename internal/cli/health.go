package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the tracker server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult

			start := time.Now()
			if err := client.Get(cmd.Context(), "/api/v1/health", &result); err != nil {
				return fmt.Errorf("server %s: %w", cfg.ServerURL, err)
			}

			out := NewOutput(cmd, cfg.Output)
			out.Print(result)
			if cfg.Verbose && cfg.Output != "json" {
				out.PrintMessage(fmt.Sprintf("Server: %s (%s)", cfg.ServerURL, time.Since(start).Round(time.Millisecond)))
			}
			return nil
		},
	}
}
