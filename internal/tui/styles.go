package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/relcheck/internal/model"
	"github.com/idilsaglam/relcheck/internal/ui"
)

// ------- minimal styling helpers (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	passedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	todoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Faint(true)
	selectedMark = lipgloss.NewStyle().Bold(true).Reverse(true)

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

func statusStyle(st model.Status) lipgloss.Style {
	switch st {
	case model.StatusPassed:
		return passedStyle
	case model.StatusFailed:
		return failedStyle
	default:
		return todoStyle
	}
}

func verdictStyle(v model.Verdict) lipgloss.Style {
	switch v {
	case model.VerdictReady:
		return passedStyle
	case model.VerdictBlocked:
		return failedStyle
	default:
		return todoStyle
	}
}

func box(st model.Status) string { return ui.Current().Box(st) }
