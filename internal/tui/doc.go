// SPDX-License-Identifier: MPL-2.0

// Package tui provides the terminal side of the picker: lipgloss styles for
// the configured colour tags, the frame layout, renderers that draw frames in
// place or hand them to Bubble Tea, and a Bubble Tea model that decodes key
// messages for the selection widget.
package tui
