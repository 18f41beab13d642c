// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/selectshell/selectshell/internal/selection"
)

// indicatorIndent prefixes the scroll arrows.
const indicatorIndent = "    "

// Lines lays out one frame: a header row holding the up arrow (or nothing),
// one row per visible option, and a footer row holding the down arrow.
// The result always has v.LineCount() entries.
func Lines(v selection.View, s StyleSheet) []string {
	cfg := v.Config
	lines := make([]string, 0, v.LineCount())

	lines = append(lines, indicator(v.HasMoreAbove, cfg.UpArrow, s))

	pad := strings.Repeat(" ", ansi.StringWidth(cfg.Pointer))
	for _, o := range v.Options {
		prefix := pad
		if o.Current {
			prefix = cfg.Pointer
		}

		var mark string
		if cfg.MultiSelect {
			glyph := cfg.Unchecked
			if o.Checked {
				glyph = cfg.Checked
			}
			if glyph != "" {
				mark = s.Checked.Render(glyph)
			}
		}

		label := o.Option.Label
		if o.Current && cfg.Inverse {
			label = s.Current.Render(label)
		}

		var b strings.Builder
		b.WriteString(s.Pointer.Render(prefix))
		if cfg.Prepend {
			b.WriteString(mark)
		}
		b.WriteString(label)
		if !cfg.Prepend {
			b.WriteString(mark)
		}
		lines = append(lines, b.String())
	}

	lines = append(lines, indicator(v.HasMoreBelow, cfg.DownArrow, s))
	return lines
}

func indicator(show bool, arrow string, s StyleSheet) string {
	if !show {
		return ""
	}
	return indicatorIndent + s.Arrow.Render(arrow)
}
