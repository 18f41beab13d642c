// SPDX-License-Identifier: MPL-2.0

package selection

type (
	// VisibleOption is one row of the viewport.
	VisibleOption struct {
		// Index is the option's absolute position in the list.
		Index   int
		Option  Option
		Current bool
		Checked bool
	}

	// View is a snapshot of everything a Renderer needs to draw one frame.
	View struct {
		Options []VisibleOption
		// CursorIndex is the absolute cursor position, -1 for an empty list.
		CursorIndex  int
		HasMoreAbove bool
		HasMoreBelow bool
		Config       Config
	}

	// Renderer draws views. Render is called synchronously after every
	// state change; Clear erases the last frame; Close restores the terminal
	// (cursor visibility and the like) and is called once.
	Renderer interface {
		Render(v View) error
		Clear() error
		Close() error
	}
)

// LineCount is the number of terminal lines the frame occupies: the header
// and footer indicator rows plus one row per visible option.
func (v View) LineCount() int {
	return len(v.Options) + 2
}

// view builds the current frame.
func (w *Widget) view() View {
	n := w.options.Len()
	v := View{CursorIndex: -1, Config: w.cfg}
	if n == 0 {
		return v
	}
	v.CursorIndex = w.cursor

	first, last := 0, n
	if w.cfg.OptionsLimit.Windowed() {
		first = w.minPos
		last = min(n, w.minPos+int(w.cfg.OptionsLimit))
		v.HasMoreAbove = first > 0
		v.HasMoreBelow = last < n
	}

	v.Options = make([]VisibleOption, 0, last-first)
	for i := first; i < last; i++ {
		v.Options = append(v.Options, VisibleOption{
			Index:   i,
			Option:  w.options.At(i),
			Current: i == w.cursor,
			Checked: w.isChecked(i),
		})
	}
	return v
}
