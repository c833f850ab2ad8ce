package ui

import (
	"strings"

	"github.com/idilsaglam/relcheck/internal/model"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending string
	BoxTodo, BoxPassed, BoxFailed                 string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
	SymOK, SymFail, SymWarn                       string
	BarFull, BarEmpty                             string
}

var current Theme

func init() { SetTheme("unicode") }

// SetTheme switches between the "unicode" (default) and "ascii" themes.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "ascii":
		current = Theme{
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Pending: fgYellow,
			BoxTodo: "[ ]", BoxPassed: "[x]", BoxFailed: "[!]",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymOK: "ok", SymFail: "error:", SymWarn: "warning:",
			BarFull: "#", BarEmpty: ".",
		}
	default:
		current = Theme{
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Pending: fgYellow,
			BoxTodo: "☐", BoxPassed: "☑", BoxFailed: "☒",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymOK: "✔", SymFail: "✖", SymWarn: "!",
			BarFull: "█", BarEmpty: "░",
		}
	}
}

// Current exposes what renderers need.
func Current() Theme { return current }

// Box returns the themed check box for st.
func (t Theme) Box(st model.Status) string {
	switch st {
	case model.StatusPassed:
		return t.BoxPassed
	case model.StatusFailed:
		return t.BoxFailed
	default:
		return t.BoxTodo
	}
}

// StatusColor returns the palette entry for st.
func (t Theme) StatusColor(st model.Status) string {
	switch st {
	case model.StatusPassed:
		return t.Success
	case model.StatusFailed:
		return t.Error
	default:
		return t.Pending
	}
}

// VerdictColor returns the palette entry for a gate verdict.
func (t Theme) VerdictColor(v model.Verdict) string {
	switch v {
	case model.VerdictReady:
		return t.Success
	case model.VerdictBlocked:
		return t.Error
	default:
		return t.Pending
	}
}
