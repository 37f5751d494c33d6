package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// SetupColor disables colour output when asked to or when stdout is not a terminal
func SetupColor(noColor bool) {
	if noColor || !IsTerminal(os.Stdout) {
		color.NoColor = true
	}
}
