package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFactCmd() *cobra.Command {
	var (
		factType        string
		nodeID          string
		sourceReference string
	)

	cmd := &cobra.Command{
		Use:   "fact <content>",
		Short: "Record a temporal fact about the project",
		Long: `Fact appends an assertion to the project's temporal fact store:
architecture, api_contract, decision, error_pattern, constraint, or
learning. Facts are never deleted or overwritten; each call appends a
new active fact, and earlier facts about the same thing stay active.`,
		Args: cobra.ExactArgs(1),
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

			id, err := svc.Fact(ctx, factType, args[0], nodeID, sourceReference)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&factType, "type", "decision", "architecture, api_contract, decision, error_pattern, constraint, or learning")
	cmd.Flags().StringVar(&nodeID, "node-id", "", "graph node this fact relates to")
	cmd.Flags().StringVar(&sourceReference, "source", "", "source reference for this fact")
	return cmd
}
