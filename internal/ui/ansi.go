package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"
)

// Out and Err are where the helpers print; tests swap them for buffers.
var (
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

var (
	forceColor   bool
	disableColor bool
)

// SetColorForcing overrides TTY detection; disable wins over force.
func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

// SetColorMode applies a config color mode: auto, always or never.
func SetColorMode(mode string) {
	switch mode {
	case "always":
		SetColorForcing(true, false)
	case "never":
		SetColorForcing(false, true)
	default:
		SetColorForcing(false, false)
	}
}

func isTTY() bool {
	f, ok := Out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ColorEnabled reports whether C will emit escape codes.
func ColorEnabled() bool {
	if disableColor {
		return false
	}
	return forceColor || isTTY()
}

// C wraps s in color when color output is enabled.
func C(color, s string) string {
	if color == "" || !ColorEnabled() {
		return s
	}
	return color + s + reset
}

func OK(msg string)   { fmt.Fprintln(Out, C(current.Success, current.SymOK+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(Err, C(current.Error, current.SymFail+" "+msg)) }
func Warn(msg string) { fmt.Fprintln(Err, C(current.Pending, current.SymWarn+" "+msg)) }
func Hint(msg string) { fmt.Fprintln(Err, C(current.Muted, msg)) }
