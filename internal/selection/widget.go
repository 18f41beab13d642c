// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"
)

// Widget lifecycle states.
const (
	StateConfiguring State = iota
	StateActive
	StateClosed
)

var (
	// ErrAlreadyStarted is returned when Start is called more than once.
	ErrAlreadyStarted = errors.New("widget already started")
	// ErrNoRenderer is returned by Start when the widget has no Renderer.
	ErrNoRenderer = errors.New("widget has no renderer")
	// ErrNoInput is returned by Start when the widget has no InputSource.
	ErrNoInput = errors.New("widget has no input source")
)

type (
	// State is the widget lifecycle state.
	State int

	// WidgetOption configures a Widget at construction.
	WidgetOption func(*Widget)

	// Widget is the list picker state machine. It is not safe for concurrent
	// use; an InputSource must deliver keys from one goroutine at a time.
	Widget struct {
		cfg      Config
		options  OptionList
		renderer Renderer
		input    InputSource
		logger   *log.Logger

		listeners []Listener
		onCommit  func(Result)

		state     State
		cursor    int
		minPos    int
		selection []int
		detached  bool
	}
)

func (s State) String() string {
	switch s {
	case StateConfiguring:
		return "configuring"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// WithLogger sets the logger used for transition traces and warnings.
func WithLogger(l *log.Logger) WidgetOption {
	return func(w *Widget) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithListener registers a listener notified on commit or cancel.
func WithListener(l Listener) WidgetOption {
	return func(w *Widget) {
		if l != nil {
			w.listeners = append(w.listeners, l)
		}
	}
}

// New creates a widget in the configuring state.
func New(cfg Config, r Renderer, in InputSource, opts ...WidgetOption) *Widget {
	w := &Widget{
		cfg:      cfg,
		renderer: r,
		input:    in,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AddOption appends an option whose value defaults to its label. Calls made
// after Start are ignored.
func (w *Widget) AddOption(label string, value ...any) *Widget {
	if !w.options.Append(NewOption(label, value...)) {
		w.logger.Warn("option ignored: widget already started", "label", label)
	}
	return w
}

// AddOptions appends each option in order.
func (w *Widget) AddOptions(opts ...Option) *Widget {
	for _, o := range opts {
		if !w.options.Append(o) {
			w.logger.Warn("option ignored: widget already started", "label", o.Label)
		}
	}
	return w
}

// Configure overlays the given keys onto the current configuration. See
// Config.Overlay for the accepted key spellings. Calls made after Start are
// ignored.
func (w *Widget) Configure(overrides map[string]any) *Widget {
	if w.state != StateConfiguring {
		w.logger.Warn("configure ignored: widget already started")
		return w
	}
	w.cfg = w.cfg.Overlay(overrides)
	if extra := w.cfg.ExtraKeys(); len(extra) > 0 {
		w.logger.Debug("unrecognised configuration keys", "keys", extra)
	}
	return w
}

// AddListener registers a listener. Must be called before Start.
func (w *Widget) AddListener(l Listener) *Widget {
	if l != nil {
		w.listeners = append(w.listeners, l)
	}
	return w
}

// Start freezes the option list, resets the cursor, viewport and selection,
// draws the first frame and subscribes to the InputSource. onCommit may be
// nil. A render error is returned after the widget has been subscribed.
func (w *Widget) Start(onCommit func(Result)) error {
	if w.state != StateConfiguring {
		return ErrAlreadyStarted
	}
	if w.renderer == nil {
		return ErrNoRenderer
	}
	if w.input == nil {
		return ErrNoInput
	}

	w.options.freeze()
	w.onCommit = onCommit
	w.cursor, w.minPos, w.selection = 0, 0, nil
	w.state = StateActive

	w.logger.Debug("widget started",
		"options", w.options.Len(),
		"multi", w.cfg.MultiSelect,
		"limit", w.cfg.OptionsLimit)

	err := w.renderer.Render(w.view())
	w.input.Subscribe(w.HandleKey)
	if err != nil {
		return fmt.Errorf("render initial frame: %w", err)
	}
	return nil
}

// HandleKey applies the transition bound to k. Keys arriving before Start or
// after commit/cancel are ignored. Non-terminal keys redraw the frame even
// when nothing changed; KeyOther changes nothing and draws nothing.
func (w *Widget) HandleKey(k Key) error {
	if w.state != StateActive {
		return nil
	}

	switch k {
	case KeyDown:
		w.moveDown()
	case KeyUp:
		w.moveUp()
	case KeyRight:
		w.check(w.cursor)
	case KeyLeft:
		w.uncheck(w.cursor)
	case KeyReturn:
		return w.commit()
	case KeyEscape:
		return w.cancel()
	default:
		return nil
	}

	w.logger.Debug("transition", "key", k, "cursor", w.cursor, "min", w.minPos, "selected", len(w.selection))
	if err := w.renderer.Render(w.view()); err != nil {
		return fmt.Errorf("render after %s: %w", k, err)
	}
	return nil
}

// State returns the lifecycle state.
func (w *Widget) State() State { return w.state }

// Config returns the current configuration.
func (w *Widget) Config() Config { return w.cfg }

// Len returns the number of options.
func (w *Widget) Len() int { return w.options.Len() }

// Options returns a copy of the options in insertion order.
func (w *Widget) Options() []Option { return w.options.Options() }

// Cursor returns the cursor position.
func (w *Widget) Cursor() int { return w.cursor }

// MinPosition returns the first position of the viewport.
func (w *Widget) MinPosition() int { return w.minPos }

// Positions returns the checked positions in check order.
func (w *Widget) Positions() []int { return slices.Clone(w.selection) }

// Selection returns the checked options in check order.
func (w *Widget) Selection() []Option {
	out := make([]Option, len(w.selection))
	for i, pos := range w.selection {
		out[i] = w.options.At(pos)
	}
	return out
}

// View returns the frame the renderer would draw for the current state.
func (w *Widget) View() View { return w.view() }

func (w *Widget) moveDown() {
	n := w.options.Len()
	if n == 0 {
		return
	}
	if w.cursor < n-1 {
		w.cursor++
	}
	if limit := int(w.cfg.OptionsLimit); limit > 0 && w.cursor >= w.minPos+limit {
		w.minPos++
	}
}

func (w *Widget) moveUp() {
	if w.options.Len() == 0 {
		return
	}
	if w.cursor > 0 {
		w.cursor--
	}
	if w.cursor < w.minPos {
		w.minPos--
	}
}

func (w *Widget) isChecked(pos int) bool {
	return slices.Contains(w.selection, pos)
}

func (w *Widget) check(pos int) {
	if w.options.Len() == 0 || w.isChecked(pos) {
		return
	}
	if w.cfg.MultiSelect {
		w.selection = append(w.selection, pos)
		return
	}
	w.selection = []int{pos}
}

func (w *Widget) uncheck(pos int) {
	i := slices.Index(w.selection, pos)
	if i < 0 {
		return
	}
	w.selection = slices.Delete(w.selection, i, i+1)
}

func (w *Widget) result(outcome Outcome) Result {
	r := Result{
		Outcome:     outcome,
		MultiSelect: w.cfg.MultiSelect,
		Selected:    w.Selection(),
		Positions:   w.Positions(),
	}
	if outcome == OutcomeCancelled {
		r.Message = w.cfg.MsgCancel
	}
	return r
}

func (w *Widget) commit() error {
	if !w.cfg.MultiSelect {
		w.check(w.cursor)
	}
	r := w.result(OutcomeCommitted)
	err := w.finish(w.cfg.ClearBeforeSelect)

	w.logger.Debug("committed", "selected", r.Labels())
	if w.onCommit != nil {
		w.onCommit(r.clone())
	}
	for _, l := range w.listeners {
		l.Commit(r.clone())
	}
	return err
}

func (w *Widget) cancel() error {
	r := w.result(OutcomeCancelled)
	err := w.finish(w.cfg.ClearBeforeCancel)

	w.logger.Debug("cancelled", "selected", r.Labels())
	for _, l := range w.listeners {
		l.Cancel(r.clone())
	}
	return err
}

// finish detaches from the input source, optionally clears the frame and
// closes the renderer. The widget is closed even when the renderer fails.
func (w *Widget) finish(clear bool) error {
	w.state = StateClosed
	if !w.detached {
		w.detached = true
		w.input.Unsubscribe()
	}

	var errs []error
	if clear {
		if err := w.renderer.Clear(); err != nil {
			errs = append(errs, fmt.Errorf("clear frame: %w", err))
		}
	}
	if err := w.renderer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close renderer: %w", err))
	}
	return errors.Join(errs...)
}
