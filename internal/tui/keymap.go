// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/selectshell/selectshell/internal/selection"
)

// KeyMap binds terminal keys to picker transitions.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Check   key.Binding
	Uncheck key.Binding
	Commit  key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns arrow-key bindings with vi-style aliases. Space checks
// the current row and ctrl+c cancels.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Check: key.NewBinding(
			key.WithKeys("right", "l", " "),
			key.WithHelp("→/l/space", "check option"),
		),
		Uncheck: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "uncheck option"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm selection"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc/ctrl+c", "cancel"),
		),
	}
}

// Decode maps a Bubble Tea key message to a picker key.
func (k KeyMap) Decode(msg tea.KeyMsg) selection.Key {
	switch {
	case key.Matches(msg, k.Up):
		return selection.KeyUp
	case key.Matches(msg, k.Down):
		return selection.KeyDown
	case key.Matches(msg, k.Check):
		return selection.KeyRight
	case key.Matches(msg, k.Uncheck):
		return selection.KeyLeft
	case key.Matches(msg, k.Commit):
		return selection.KeyReturn
	case key.Matches(msg, k.Cancel):
		return selection.KeyEscape
	default:
		return selection.KeyOther
	}
}

// Bindings returns the bindings in display order.
func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Check, k.Uncheck, k.Commit, k.Cancel}
}
