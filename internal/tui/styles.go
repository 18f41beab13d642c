// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/selectshell/selectshell/internal/selection"
)

// StyleSheet holds the lipgloss styles derived from a picker configuration.
type StyleSheet struct {
	Pointer lipgloss.Style
	Checked lipgloss.Style
	Arrow   lipgloss.Style
	Cancel  lipgloss.Style
	// Current styles the label under the cursor. It is only reversed when
	// the configuration asks for inverse highlighting.
	Current lipgloss.Style
}

// NewStyleSheet builds styles for cfg on the given renderer. A nil renderer
// uses the lipgloss default renderer.
func NewStyleSheet(r *lipgloss.Renderer, cfg selection.Config) StyleSheet {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	fg := func(tag string) lipgloss.Style {
		return r.NewStyle().Foreground(ColorSpec(tag).TerminalColor())
	}
	return StyleSheet{
		Pointer: fg(cfg.PointerColor),
		Checked: fg(cfg.CheckedColor),
		Arrow:   fg(cfg.ArrowColor),
		Cancel:  fg(cfg.MsgCancelColor),
		Current: r.NewStyle().Reverse(cfg.Inverse),
	}
}
