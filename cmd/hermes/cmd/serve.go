package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hermeskg/hermes/internal/mcpserver"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the six Hermes operations as JSON-RPC tools over stdio",
		Long: `Serve starts the Model Context Protocol server an AI coding assistant
talks to: index, search, fetch, fact, facts, and stats, all dispatched
through the same Service an interactive "hermes" invocation uses.`,
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

			srv := mcpserver.New(svc, logger)
			return srv.Serve(ctx)
		},
	}
	return cmd
}
