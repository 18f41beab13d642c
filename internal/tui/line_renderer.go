// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/selectshell/selectshell/internal/selection"
)

// lineBreak is used instead of "\n" because raw mode disables output
// post-processing.
const lineBreak = "\r\n"

// LineRenderer draws frames in place on a terminal stream. Each render moves
// the cursor back over the previous frame, erases it and writes the new one.
// The terminal cursor is hidden on the first render and shown again on Close.
type LineRenderer struct {
	w      io.Writer
	styles *lipgloss.Renderer
	drawn  int
	hidden bool
	closed bool
}

var _ selection.Renderer = (*LineRenderer)(nil)

// NewLineRenderer returns a renderer writing to w. Colour support is detected
// from w.
func NewLineRenderer(w io.Writer) *LineRenderer {
	return &LineRenderer{w: w, styles: lipgloss.NewRenderer(w)}
}

// Render implements selection.Renderer.
func (r *LineRenderer) Render(v selection.View) error {
	var b strings.Builder
	if !r.hidden {
		b.WriteString(ansi.HideCursor)
		r.hidden = true
	}
	r.erase(&b)

	lines := Lines(v, NewStyleSheet(r.styles, v.Config))
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString(lineBreak)
	}
	if _, err := io.WriteString(r.w, b.String()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	r.drawn = len(lines)
	return nil
}

// Clear implements selection.Renderer by erasing the last frame.
func (r *LineRenderer) Clear() error {
	if r.drawn == 0 {
		return nil
	}
	var b strings.Builder
	r.erase(&b)
	r.drawn = 0
	if _, err := io.WriteString(r.w, b.String()); err != nil {
		return fmt.Errorf("clear frame: %w", err)
	}
	return nil
}

// Close implements selection.Renderer by showing the cursor again.
func (r *LineRenderer) Close() error {
	if r.closed || !r.hidden {
		r.closed = true
		return nil
	}
	r.closed = true
	if _, err := io.WriteString(r.w, ansi.ShowCursor); err != nil {
		return fmt.Errorf("show cursor: %w", err)
	}
	return nil
}

// Notice prints a line of text in the given colour below whatever is left on
// screen. The picker uses it for the cancel message.
func (r *LineRenderer) Notice(text, color string) error {
	if text == "" {
		return nil
	}
	style := r.styles.NewStyle().Foreground(ColorSpec(color).TerminalColor())
	if _, err := io.WriteString(r.w, style.Render(text)+lineBreak); err != nil {
		return fmt.Errorf("write notice: %w", err)
	}
	return nil
}

// Drawn returns the number of lines of the frame currently on screen.
func (r *LineRenderer) Drawn() int { return r.drawn }

func (r *LineRenderer) erase(b *strings.Builder) {
	if r.drawn == 0 {
		return
	}
	b.WriteString(ansi.CursorUp(r.drawn))
	b.WriteString("\r")
	b.WriteString(ansi.EraseScreenBelow)
}
