package ui

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/hermeskg/hermes/internal/pointer"
)

// PrintStats renders an accounting window for "hermes stats".
func PrintStats(w io.Writer, stats pointer.Stats) {
	fmt.Fprintf(w, "queries:            %s\n", humanize.Comma(int64(stats.Queries)))
	fmt.Fprintf(w, "pointer tokens:     %s\n", humanize.Comma(int64(stats.PointerTokens)))
	fmt.Fprintf(w, "fetched tokens:     %s\n", humanize.Comma(int64(stats.FetchedTokens)))
	fmt.Fprintf(w, "traditional est.:   %s\n", humanize.Comma(int64(stats.TraditionalEstimate)))
	fmt.Fprintf(w, "tokens saved:       %s\n", humanize.Comma(int64(stats.SavedTokens)))
	fmt.Fprintf(w, "savings:            %.1f%%\n", stats.SavingsPct)
}
