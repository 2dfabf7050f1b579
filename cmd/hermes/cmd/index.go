package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hermeskg/hermes/internal/ui"
)

func newIndexCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Crawl, chunk, and index the project into the knowledge graph",
		Long: `Index walks the project root, chunks each file, and upserts changed
nodes and edges into the knowledge graph. Unchanged files and chunks are
skipped via content hashing; files removed since the last run are swept
from the graph. Per-file errors are counted but never abort the run.`,
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

			mode := ui.ModeAuto
			if plain {
				mode = ui.ModePlain
			}
			renderer := ui.New(ui.Config{Output: cmd.OutOrStdout(), Force: mode})
			renderer.Start()

			report, err := svc.Index(ctx)
			if err != nil {
				return err
			}

			for _, msg := range report.ErrorLog {
				file, detail := msg, msg
				if idx := strings.Index(msg, ": "); idx >= 0 {
					file, detail = msg[:idx], msg[idx+2:]
				}
				renderer.AddError(ui.ErrorEvent{File: file, Err: errString(detail)})
			}
			renderer.Complete(ui.CompletionStats{
				TotalFiles:   report.TotalFiles,
				Indexed:      report.Indexed,
				Skipped:      report.Skipped,
				Errors:       report.Errors,
				NodesCreated: report.NodesCreated,
				Removed:      report.Removed,
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "force plain-text output instead of the TUI")
	return cmd
}

// errString wraps a pre-formatted error-log line as an error, since
// Report.ErrorLog already carries "path: message" strings rather than
// structured errors.
type errString string

func (e errString) Error() string { return string(e) }
