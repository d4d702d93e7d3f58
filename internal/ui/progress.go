package ui

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ShouldAnimate reports whether live progress should be drawn on f
func ShouldAnimate(f *os.File, quiet bool) bool {
	return !quiet && IsTerminal(f)
}
