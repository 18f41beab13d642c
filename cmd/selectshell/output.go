// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/selectshell/selectshell/internal/selection"
)

const (
	OutputText  OutputFormat = "text"
	OutputJSON  OutputFormat = "json"
	OutputShell OutputFormat = "shell"
)

// ErrInvalidOutputFormat is the sentinel error wrapped by InvalidOutputFormatError.
var ErrInvalidOutputFormat = errors.New("invalid output format")

type (
	// OutputFormat selects how committed values are printed.
	OutputFormat string

	// InvalidOutputFormatError is returned for unknown output formats.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	jsonOption struct {
		Position int    `json:"position"`
		Label    string `json:"label"`
		Value    any    `json:"value"`
	}

	jsonResult struct {
		MultiSelect bool         `json:"multi_select"`
		Selected    []jsonOption `json:"selected"`
	}
)

func (f OutputFormat) String() string { return string(f) }

// IsValid reports whether f is a known format.
func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case OutputText, OutputJSON, OutputShell:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (expected text, json or shell)", e.Value)
}

func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// writeResult prints a committed result.
//
//	text   one value per line
//	json   {"multi_select": ..., "selected": [{position, label, value}]}
//	shell  values quoted for bash on a single line
func writeResult(w io.Writer, res selection.Result, format OutputFormat) error {
	switch format {
	case OutputText:
		for _, v := range res.Values() {
			if _, err := fmt.Fprintln(w, v); err != nil {
				return err
			}
		}
		return nil

	case OutputJSON:
		out := jsonResult{MultiSelect: res.MultiSelect, Selected: make([]jsonOption, 0, len(res.Selected))}
		for i, o := range res.Selected {
			out.Selected = append(out.Selected, jsonOption{Position: res.Positions[i], Label: o.Label, Value: o.Value})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)

	case OutputShell:
		words := make([]string, 0, len(res.Selected))
		for _, v := range res.Values() {
			q, err := syntax.Quote(fmt.Sprint(v), syntax.LangBash)
			if err != nil {
				return fmt.Errorf("quote %q: %w", v, err)
			}
			words = append(words, q)
		}
		_, err := fmt.Fprintln(w, strings.Join(words, " "))
		return err

	default:
		return &InvalidOutputFormatError{Value: format}
	}
}
