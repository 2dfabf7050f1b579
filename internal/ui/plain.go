package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
)

// PlainRenderer writes one progress line per update, for piped/CI output.
type PlainRenderer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewPlainRenderer constructs a PlainRenderer writing to cfg.Output.
func NewPlainRenderer(cfg Config) *PlainRenderer {
	return &PlainRenderer{out: cfg.Output}
}

func (r *PlainRenderer) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, "hermes: starting index run")
}

func (r *PlainRenderer) UpdateProgress(event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Total > 0 {
		fmt.Fprintf(r.out, "[%s] %d/%d %s\n", event.Stage, event.Current, event.Total, event.CurrentFile)
	} else {
		fmt.Fprintf(r.out, "[%s] %s\n", event.Stage, event.CurrentFile)
	}
}

func (r *PlainRenderer) AddError(event ErrorEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "error: %s: %v\n", event.File, event.Err)
}

func (r *PlainRenderer) Complete(stats CompletionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "done: %s files scanned, %d indexed, %d skipped, %d nodes, %d errors, %d removed\n",
		humanize.Comma(int64(stats.TotalFiles)), stats.Indexed, stats.Skipped, stats.NodesCreated, stats.Errors, stats.Removed)
}
