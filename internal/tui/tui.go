// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Config holds the terminal streams a picker uses.
type Config struct {
	// Input is where keys are read from.
	Input *os.File
	// Output is where the picker is drawn.
	Output io.Writer
	// Width is the terminal width (0 for auto).
	Width TerminalDimension
}

// DefaultConfig returns the default terminal configuration.
//
// The picker is drawn on stdout when stdout is a terminal and on stderr
// otherwise, so results printed to stdout can be captured with $(...)
// while the user still sees the picker.
func DefaultConfig() Config {
	var output io.Writer = os.Stdout
	if !IsTerminal(os.Stdout) {
		output = os.Stderr
	}

	var width TerminalDimension
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = TerminalDimension(w)
	}

	return Config{
		Input:  os.Stdin,
		Output: output,
		Width:  width,
	}
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
