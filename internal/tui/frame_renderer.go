// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/selectshell/selectshell/internal/selection"
)

// FrameRenderer keeps the latest frame as a string for hosts that pull their
// output, such as a Bubble Tea View.
type FrameRenderer struct {
	styles *lipgloss.Renderer
	frame  string
	closed bool
}

var _ selection.Renderer = (*FrameRenderer)(nil)

// NewFrameRenderer returns a frame renderer styling with r. A nil r uses the
// lipgloss default renderer.
func NewFrameRenderer(r *lipgloss.Renderer) *FrameRenderer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &FrameRenderer{styles: r}
}

// Render implements selection.Renderer.
func (f *FrameRenderer) Render(v selection.View) error {
	f.frame = strings.Join(Lines(v, NewStyleSheet(f.styles, v.Config)), "\n")
	return nil
}

// Clear implements selection.Renderer.
func (f *FrameRenderer) Clear() error {
	f.frame = ""
	return nil
}

// Close implements selection.Renderer.
func (f *FrameRenderer) Close() error {
	f.closed = true
	return nil
}

// Frame returns the last rendered frame.
func (f *FrameRenderer) Frame() string { return f.frame }

// Closed reports whether Close has been called.
func (f *FrameRenderer) Closed() bool { return f.closed }

// Styles returns the lipgloss renderer frames are styled with.
func (f *FrameRenderer) Styles() *lipgloss.Renderer { return f.styles }
