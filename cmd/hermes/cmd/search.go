package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var (
		sessionID  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run pointer-based retrieval over the indexed project",
		Long: `Search runs the tiered hybrid search (literal, full-text, vector)
and returns compact pointers — path, line range, summary, relevance —
instead of raw file content. Fetch a pointer's body with "hermes fetch".`,
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

			resp, err := svc.Search(ctx, sessionID, args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			for _, p := range resp.Pointers {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6.3f %s %s  %s\n", p.Relevance, p.Source, p.Lines, p.Summary)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d pointers, %.1f%% token savings vs. traditional RAG\n",
				len(resp.Pointers), resp.Accounting.SavingsPct)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "session id to attribute token accounting to")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
