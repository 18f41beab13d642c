// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidTerminalDimension is the sentinel error wrapped by InvalidTerminalDimensionError.
var ErrInvalidTerminalDimension = errors.New("invalid terminal dimension")

type (
	// TerminalDimension is a width or height in terminal cells. Zero means
	// the size is unknown and callers pick their own default.
	TerminalDimension int

	// InvalidTerminalDimensionError reports a negative TerminalDimension.
	InvalidTerminalDimensionError struct {
		Value TerminalDimension
	}
)

func (d TerminalDimension) String() string { return strconv.Itoa(int(d)) }

// IsValid rejects negative sizes.
func (d TerminalDimension) IsValid() (bool, []error) {
	if d >= 0 {
		return true, nil
	}
	return false, []error{&InvalidTerminalDimensionError{Value: d}}
}

// Or substitutes fallback for an unknown size.
func (d TerminalDimension) Or(fallback TerminalDimension) TerminalDimension {
	if d == 0 {
		return fallback
	}
	return d
}

// Cap limits d to at most limit. An unknown size stays unknown.
func (d TerminalDimension) Cap(limit TerminalDimension) TerminalDimension {
	return min(d, limit)
}

func (e *InvalidTerminalDimensionError) Error() string {
	return fmt.Sprintf("invalid terminal dimension %d: must be >= 0", e.Value)
}

// Unwrap returns ErrInvalidTerminalDimension.
func (e *InvalidTerminalDimensionError) Unwrap() error { return ErrInvalidTerminalDimension }
