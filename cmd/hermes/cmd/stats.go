package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hermeskg/hermes/internal/pointer"
	"github.com/hermeskg/hermes/internal/ui"
)

func newStatsCmd() *cobra.Command {
	var since string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cumulative token-savings accounting",
		Long:  `Stats reports query count and pointer-vs-traditional token savings over a window ("Nh", "Nd", or "all").`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger, cleanup := setupLogger()
			defer cleanup()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := openService(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			stats, err := svc.Stats(ctx, pointer.Window{Since: since})
			if err != nil {
				return err
			}
			ui.PrintStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&since, "since", "all", `window to report over: "Nh", "Nd", or "all"`)
	return cmd
}
