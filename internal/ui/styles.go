package ui

import "github.com/charmbracelet/lipgloss"

var (
	styleStage   = lipgloss.NewStyle().Foreground(lipgloss.Color("35")).Bold(true)
	styleCounter = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleFile    = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Faint(true)
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styleDone    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)
