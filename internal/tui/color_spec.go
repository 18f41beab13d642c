// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ErrInvalidColorSpec is the sentinel error wrapped by InvalidColorSpecError.
var ErrInvalidColorSpec = errors.New("invalid color spec")

// namedColors maps colour tag names to ANSI palette indices.
var namedColors = map[string]string{
	"black":         "0",
	"red":           "1",
	"green":         "2",
	"yellow":        "3",
	"blue":          "4",
	"magenta":       "5",
	"cyan":          "6",
	"white":         "7",
	"gray":          "8",
	"grey":          "8",
	"brightblack":   "8",
	"brightred":     "9",
	"brightgreen":   "10",
	"brightyellow":  "11",
	"brightblue":    "12",
	"brightmagenta": "13",
	"brightcyan":    "14",
	"brightwhite":   "15",
}

type (
	// ColorSpec is a colour tag as found in picker configuration.
	// Accepts named ANSI colours ("red", "bright_blue"), ANSI color numbers
	// ("196") or CSS hex codes ("#7C3AED").
	// The zero value ("") is valid and means "no color" (use terminal default).
	ColorSpec string

	// InvalidColorSpecError is returned when a ColorSpec cannot be resolved.
	// It wraps ErrInvalidColorSpec for errors.Is() compatibility.
	InvalidColorSpecError struct {
		Value ColorSpec
	}
)

// String returns the string representation of the ColorSpec.
func (c ColorSpec) String() string { return string(c) }

// IsValid returns whether the ColorSpec is valid.
// The zero value ("") is valid (means "no color").
func (c ColorSpec) IsValid() (bool, []error) {
	if c == "" {
		return true, nil
	}
	if _, ok := c.resolve(); !ok {
		return false, []error{&InvalidColorSpecError{Value: c}}
	}
	return true, nil
}

// TerminalColor converts the spec to a lipgloss colour. Unresolvable specs
// fall back to the terminal default.
func (c ColorSpec) TerminalColor() lipgloss.TerminalColor {
	value, ok := c.resolve()
	if !ok || value == "" {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(value)
}

func (c ColorSpec) resolve() (string, bool) {
	s := strings.TrimSpace(string(c))
	if s == "" {
		return "", c == ""
	}
	if strings.HasPrefix(s, "#") {
		if len(s) != 4 && len(s) != 7 {
			return "", false
		}
		if _, err := strconv.ParseUint(s[1:], 16, 32); err != nil {
			return "", false
		}
		return s, true
	}
	if n, err := strconv.Atoi(s); err == nil {
		return s, n >= 0 && n <= 255
	}
	name := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(s))
	value, ok := namedColors[name]
	return value, ok
}

// Error implements the error interface for InvalidColorSpecError.
func (e *InvalidColorSpecError) Error() string {
	return fmt.Sprintf("invalid color spec %q: want a color name, an ANSI number (0-255) or a hex code", e.Value)
}

// Unwrap returns ErrInvalidColorSpec for errors.Is() compatibility.
func (e *InvalidColorSpecError) Unwrap() error { return ErrInvalidColorSpec }
