// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/selectshell/selectshell/internal/selection"
)

// ErrAborted is returned by Run when the program exits before the picker
// commits or cancels.
var ErrAborted = errors.New("picker exited without a result")

type (
	// ModelOptions configures a picker model.
	ModelOptions struct {
		Config  selection.Config
		Options []selection.Option
		// Styles is the lipgloss renderer frames are styled with. Nil uses
		// the default renderer.
		Styles *lipgloss.Renderer
		KeyMap *KeyMap
		Logger *log.Logger
		// Listener is notified in addition to the model's own bookkeeping.
		Listener selection.Listener
	}

	// Model is a Bubble Tea model hosting a picker widget. It is also the
	// widget's InputSource: key messages are decoded through the KeyMap and
	// handed to the subscribed handler.
	Model struct {
		widget  *selection.Widget
		frame   *FrameRenderer
		keys    KeyMap
		handler selection.KeyHandler
		result  *selection.Result
		err     error
	}

	// RunOptions configures Run.
	RunOptions struct {
		ModelOptions
		// Input defaults to stdin and Output to stdout.
		Input  io.Reader
		Output io.Writer
		// ProgramOptions are appended after the options Run derives.
		ProgramOptions []tea.ProgramOption
	}
)

var (
	_ tea.Model             = (*Model)(nil)
	_ selection.InputSource = (*Model)(nil)
)

// NewModel builds a started picker model. The first frame is rendered before
// NewModel returns.
func NewModel(opts ModelOptions) (*Model, error) {
	keys := DefaultKeyMap()
	if opts.KeyMap != nil {
		keys = *opts.KeyMap
	}
	m := &Model{
		frame: NewFrameRenderer(opts.Styles),
		keys:  keys,
	}

	widgetOpts := []selection.WidgetOption{
		selection.WithListener(selection.ListenerFuncs{OnCommit: m.finish, OnCancel: m.finish}),
		selection.WithListener(opts.Listener),
	}
	if opts.Logger != nil {
		widgetOpts = append(widgetOpts, selection.WithLogger(opts.Logger))
	}
	m.widget = selection.New(opts.Config, m.frame, m, widgetOpts...).AddOptions(opts.Options...)

	if err := m.widget.Start(nil); err != nil {
		return nil, fmt.Errorf("start picker: %w", err)
	}
	return m, nil
}

// Subscribe implements selection.InputSource.
func (m *Model) Subscribe(h selection.KeyHandler) { m.handler = h }

// Unsubscribe implements selection.InputSource.
func (m *Model) Unsubscribe() { m.handler = nil }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	for _, k := range splitRunes(keyMsg) {
		if m.handler == nil {
			break
		}
		if err := m.handler(m.keys.Decode(k)); err != nil {
			m.err = err
			return m, tea.Quit
		}
	}
	if m.result != nil {
		return m, tea.Quit
	}
	return m, nil
}

// splitRunes breaks typed-ahead or pasted runes, which Bubble Tea delivers
// as one message, into one key per rune.
func splitRunes(msg tea.KeyMsg) []tea.KeyMsg {
	if msg.Type != tea.KeyRunes || len(msg.Runes) < 2 || msg.Paste {
		return []tea.KeyMsg{msg}
	}
	keys := make([]tea.KeyMsg, len(msg.Runes))
	for i, r := range msg.Runes {
		keys[i] = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: msg.Alt}
	}
	return keys
}

// View implements tea.Model. Once the picker has finished the view is the
// final frame, which is empty when the widget cleared it.
func (m *Model) View() string {
	if m.result != nil && m.result.Cancelled() {
		cfg := m.widget.Config()
		if cfg.MsgCancel != "" {
			notice := m.frame.Styles().NewStyle().Foreground(ColorSpec(cfg.MsgCancelColor).TerminalColor())
			if frame := m.frame.Frame(); frame != "" {
				return frame + "\n" + notice.Render(cfg.MsgCancel) + "\n"
			}
			return notice.Render(cfg.MsgCancel) + "\n"
		}
	}
	return m.frame.Frame()
}

// Result returns the final result once the picker has committed or cancelled.
func (m *Model) Result() (selection.Result, bool) {
	if m.result == nil {
		return selection.Result{}, false
	}
	return *m.result, true
}

// Err returns the renderer error that stopped the model, if any.
func (m *Model) Err() error { return m.err }

// Widget returns the hosted widget.
func (m *Model) Widget() *selection.Widget { return m.widget }

func (m *Model) finish(r selection.Result) { m.result = &r }

// Run drives a picker inline on a terminal and returns its result. A
// cancelled picker returns its result together with selection.ErrCancelled.
func Run(ctx context.Context, opts RunOptions) (selection.Result, error) {
	if opts.Styles == nil && opts.Output != nil {
		opts.Styles = lipgloss.NewRenderer(opts.Output)
	}
	m, err := NewModel(opts.ModelOptions)
	if err != nil {
		return selection.Result{}, err
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}
	programOpts = append(programOpts, opts.ProgramOptions...)

	if _, err := tea.NewProgram(m, programOpts...).Run(); err != nil {
		if ctx.Err() != nil {
			return selection.Result{}, ctx.Err()
		}
		return selection.Result{}, fmt.Errorf("run picker: %w", err)
	}
	if m.err != nil {
		return selection.Result{}, m.err
	}

	res, ok := m.Result()
	if !ok {
		return selection.Result{}, ErrAborted
	}
	return res, res.Err()
}
