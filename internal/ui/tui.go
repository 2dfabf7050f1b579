package ui

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// TUIRenderer drives a live bubbletea spinner + counter view for ingestion
// progress, replacing PlainRenderer's one-line-per-event output when
// stdout is a terminal.
type TUIRenderer struct {
	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUIRenderer starts the bubbletea program in its own goroutine,
// returning immediately; UpdateProgress/AddError/Complete forward events
// to it via Program.Send.
func NewTUIRenderer(cfg Config) *TUIRenderer {
	r := &TUIRenderer{done: make(chan struct{})}
	model := newIndexModel()
	r.program = tea.NewProgram(model, tea.WithOutput(cfg.Output))

	go func() {
		defer close(r.done)
		_, _ = r.program.Run()
	}()
	return r
}

func (r *TUIRenderer) Start() {}

func (r *TUIRenderer) UpdateProgress(event ProgressEvent) {
	r.program.Send(progressMsg(event))
}

func (r *TUIRenderer) AddError(event ErrorEvent) {
	r.program.Send(errorMsg(event))
}

func (r *TUIRenderer) Complete(stats CompletionStats) {
	r.program.Send(completeMsg(stats))
	<-r.done
}

type progressMsg ProgressEvent
type errorMsg ErrorEvent
type completeMsg CompletionStats

type indexModel struct {
	spinner  spinner.Model
	progress ProgressEvent
	errCount int
	done     bool
	stats    CompletionStats
}

func newIndexModel() indexModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return indexModel{spinner: s}
}

func (m indexModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m indexModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.progress = ProgressEvent(msg)
		return m, nil
	case errorMsg:
		m.errCount++
		return m, nil
	case completeMsg:
		m.done = true
		m.stats = CompletionStats(msg)
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m indexModel) View() string {
	if m.done {
		return styleDone.Render(fmt.Sprintf("done: %d indexed, %d skipped, %d nodes, %d errors, %d removed\n",
			m.stats.Indexed, m.stats.Skipped, m.stats.NodesCreated, m.stats.Errors, m.stats.Removed))
	}

	line := fmt.Sprintf("%s %s", m.spinner.View(), styleStage.Render(m.progress.Stage.String()))
	if m.progress.Total > 0 {
		line += " " + styleCounter.Render(fmt.Sprintf("%d/%d", m.progress.Current, m.progress.Total))
	}
	if m.progress.CurrentFile != "" {
		line += " " + styleFile.Render(m.progress.CurrentFile)
	}
	if m.errCount > 0 {
		line += " " + styleError.Render(fmt.Sprintf("(%d errors)", m.errCount))
	}
	return line + "\n"
}
