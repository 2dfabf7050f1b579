// Package ui renders ingestion progress and accounting summaries: a live
// spinner view when stdout is a terminal, plain lines otherwise.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Stage identifies which phase of the ingestion pipeline is running.
type Stage int

const (
	StageCrawl Stage = iota
	StageChunk
	StageIndex
	StageSweep
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageCrawl:
		return "Crawling"
	case StageChunk:
		return "Chunking"
	case StageIndex:
		return "Indexing"
	case StageSweep:
		return "Sweeping"
	case StageComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// ProgressEvent is one tick of ingestion progress.
type ProgressEvent struct {
	Stage       Stage
	Current     int
	Total       int
	CurrentFile string
}

// ErrorEvent is one per-file ingestion error, reported but not fatal.
type ErrorEvent struct {
	File string
	Err  error
}

// CompletionStats summarizes a finished ingestion run.
type CompletionStats struct {
	TotalFiles   int
	Indexed      int
	Skipped      int
	Errors       int
	NodesCreated int
	Removed      int
}

// Renderer displays ingestion progress. Implementations must be safe for
// the single-goroutine pipeline to call synchronously.
type Renderer interface {
	Start()
	UpdateProgress(ProgressEvent)
	AddError(ErrorEvent)
	Complete(CompletionStats)
}

// Config controls renderer construction.
type Config struct {
	Output  io.Writer
	NoColor bool
	Force   Mode // overrides TTY detection; ModeAuto defers to isatty
}

// Mode forces a specific renderer, bypassing TTY auto-detection.
type Mode int

const (
	ModeAuto Mode = iota
	ModePlain
	ModeTUI
)

// New selects a TUI renderer when stdout is a terminal and cfg doesn't
// force plain output, otherwise a PlainRenderer.
func New(cfg Config) Renderer {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	useTUI := cfg.Force == ModeTUI
	if cfg.Force == ModeAuto {
		if f, ok := cfg.Output.(*os.File); ok {
			useTUI = isatty.IsTerminal(f.Fd())
		}
	}

	if useTUI {
		return NewTUIRenderer(cfg)
	}
	return NewPlainRenderer(cfg)
}
