package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "fetch <node-id>",
		Short: "Fetch the full source body a search pointer refers to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			result, err := svc.Fetch(ctx, sessionID, args[0])
			if err != nil {
				return err
			}
			if !result.Found {
				return fmt.Errorf("no node with id %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Body)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "session id to attribute token accounting to")
	return cmd
}
