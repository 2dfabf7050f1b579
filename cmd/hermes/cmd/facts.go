package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newFactsCmd() *cobra.Command {
	var (
		factType   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "facts",
		Short: "List active temporal facts",
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

			facts, err := svc.ActiveFacts(ctx, factType)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(facts)
			}

			for _, f := range facts {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s  %s\n", f.FactType, f.ID, f.Content)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&factType, "type", "", "filter by fact type")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
