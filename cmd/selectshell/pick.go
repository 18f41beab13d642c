// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/selectshell/selectshell/internal/config"
	"github.com/selectshell/selectshell/internal/issue"
	"github.com/selectshell/selectshell/internal/optionsource"
	"github.com/selectshell/selectshell/internal/rawterm"
	"github.com/selectshell/selectshell/internal/selection"
	"github.com/selectshell/selectshell/internal/tui"
)

// ttyPath is opened for keys when stdin carries the option list.
const ttyPath = "/dev/tty"

type (
	// pickerFlags are the picker appearance and option-source flags shared
	// by pick and serve.
	pickerFlags struct {
		file      string
		single    bool
		multi     bool
		limit     int
		pointer   string
		checked   string
		unchecked string
		inverse   bool
		prepend   bool
		msgCancel string
		set       []string
	}

	pickFlags struct {
		pickerFlags
		backend string
		output  string
	}
)

func (f *pickerFlags) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.file, "file", "f", "", "read options from a .toml, .yaml, .json or plain text file")
	fs.BoolVar(&f.single, "single", false, "allow only one option to be picked")
	fs.BoolVar(&f.multi, "multi", false, "allow several options to be picked")
	fs.IntVarP(&f.limit, "limit", "n", 0, "number of options shown at once (0 shows all)")
	fs.StringVar(&f.pointer, "pointer", "", "marker drawn before the option under the cursor")
	fs.StringVar(&f.checked, "checked", "", "mark drawn next to checked options")
	fs.StringVar(&f.unchecked, "unchecked", "", "mark drawn next to unchecked options")
	fs.BoolVar(&f.inverse, "inverse", false, "draw the option under the cursor in reverse video")
	fs.BoolVar(&f.prepend, "prepend", false, "draw check marks before labels")
	fs.StringVar(&f.msgCancel, "msg-cancel", "", "message printed when the picker is cancelled")
	fs.StringArrayVar(&f.set, "set", nil, "set any picker option as key=value (repeatable)")
}

// overrides returns the picker settings given on the command line, keyed
// the way selection.Config.Overlay expects. Only flags that were set are
// included.
func (f *pickerFlags) overrides(fs *pflag.FlagSet) (map[string]any, error) {
	if f.single && f.multi {
		return nil, errors.New("--single and --multi are mutually exclusive")
	}

	out := make(map[string]any)
	for _, kv := range f.set {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("--set %q: expected key=value", kv)
		}
		out[strings.TrimSpace(key)] = value
	}

	changed := func(name string) bool { return fs.Changed(name) }
	if changed("single") || changed("multi") {
		out["multi_select"] = f.multi
	}
	if changed("limit") {
		out["options_limit"] = f.limit
	}
	if changed("pointer") {
		out["pointer"] = f.pointer
	}
	if changed("checked") {
		out["checked"] = f.checked
	}
	if changed("unchecked") {
		out["unchecked"] = f.unchecked
	}
	if changed("inverse") {
		out["inverse"] = f.inverse
	}
	if changed("prepend") {
		out["prepend"] = f.prepend
	}
	if changed("msg-cancel") {
		out["msg_cancel"] = f.msgCancel
	}
	return out, nil
}

// widgetConfig merges the configuration file with the flags.
func (f *pickerFlags) widgetConfig(cfg *config.Config, fs *pflag.FlagSet) (selection.Config, error) {
	overrides, err := f.overrides(fs)
	if err != nil {
		return selection.Config{}, usageError(err)
	}
	if fs.Changed("limit") {
		if ok, errs := selection.OptionsLimit(f.limit).IsValid(); !ok {
			return selection.Config{}, usageError(errors.Join(errs...))
		}
	}
	return cfg.Widget().Overlay(overrides), nil
}

// collectOptions reads options from args, --file, or stdin when stdin is
// not a terminal, in that order. It reports whether stdin was consumed.
func (f *pickerFlags) collectOptions(args []string, stdin *os.File) ([]selection.Option, bool, error) {
	var (
		opts     []selection.Option
		consumed bool
		err      error
	)
	switch {
	case len(args) > 0:
		opts = optionsource.FromArgs(args)
	case f.file != "":
		opts, err = optionsource.LoadFile(f.file)
	case stdin != nil && !tui.IsTerminal(stdin):
		consumed = true
		opts, err = optionsource.FromLines(stdin)
	}
	if err != nil {
		return nil, consumed, usageError(err)
	}
	if len(opts) == 0 {
		return nil, consumed, usageError(issue.NewErrorContext().
			WithOperation("collect options").
			WithSuggestion("Pass options as arguments, with --file, or on standard input").
			WithIssue(issue.NoOptionsId).
			BuildError())
	}
	return opts, consumed, nil
}

func newPickCommand(app *App) *cobra.Command {
	flags := &pickFlags{}
	cmd := &cobra.Command{
		Use:   "pick [options...]",
		Short: "Pick options interactively and print the chosen values",
		Long: `Pick options interactively and print the chosen values.

Options come from the arguments, from --file, or one per line on standard
input. Use the arrow keys (or h/j/k/l) to move and check, enter to commit,
and esc to cancel. A cancelled picker exits with status 1.`,
		Example: `  selectshell pick red green blue
  ls | selectshell pick --single
  selectshell pick --file envs.toml --output shell`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPick(cmd.Context(), app, cmd.Flags(), flags, args)
		},
	}
	flags.bind(cmd.Flags())
	cmd.Flags().StringVar(&flags.backend, "backend", "", "terminal backend: tea or raw (default from config)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", string(OutputText), "output format: text, json or shell")
	return cmd
}

func runPick(ctx context.Context, app *App, fs *pflag.FlagSet, flags *pickFlags, args []string) error {
	format := OutputFormat(flags.output)
	if ok, errs := format.IsValid(); !ok {
		return usageError(errs[0])
	}

	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	backend := cfg.Backend
	if flags.backend != "" {
		backend = config.Backend(flags.backend)
	}
	if ok, errs := backend.IsValid(); !ok {
		return usageError(errs[0])
	}

	widgetCfg, err := flags.widgetConfig(cfg, fs)
	if err != nil {
		return err
	}
	if keys := widgetCfg.ExtraKeys(); len(keys) > 0 {
		app.Logger().Debug("unrecognised picker keys passed through", "keys", keys)
	}

	opts, stdinConsumed, err := flags.collectOptions(args, app.Stdin)
	if err != nil {
		return err
	}

	req := pickRequest{config: widgetCfg, options: opts, stdinConsumed: stdinConsumed}
	var res selection.Result
	switch backend {
	case config.BackendRaw:
		res, err = app.pickRaw(ctx, req)
	default:
		res, err = app.pickTea(ctx, req)
	}
	if errors.Is(err, selection.ErrCancelled) {
		return &ExitError{Code: ExitCancelled}
	}
	if err != nil {
		return err
	}
	return writeResult(app.Stdout, res, format)
}

type pickRequest struct {
	config        selection.Config
	options       []selection.Option
	stdinConsumed bool
}

// uiOutput is where the picker is drawn: stdout when it is a terminal,
// stderr otherwise so values can be captured with $(...).
func (a *App) uiOutput() io.Writer {
	if f, ok := a.Stdout.(*os.File); ok && tui.IsTerminal(f) {
		return f
	}
	return a.Stderr
}

func (a *App) pickTea(ctx context.Context, req pickRequest) (selection.Result, error) {
	opts := tui.RunOptions{
		ModelOptions: tui.ModelOptions{
			Config:  req.config,
			Options: req.options,
			Logger:  a.Logger(),
		},
		Output: a.uiOutput(),
	}
	if req.stdinConsumed {
		opts.ProgramOptions = append(opts.ProgramOptions, tea.WithInputTTY())
	} else {
		opts.Input = a.Stdin
	}
	return tui.Run(ctx, opts)
}

// pickRaw drives the widget directly over a raw-mode terminal, drawing in
// place with escape sequences.
func (a *App) pickRaw(ctx context.Context, req pickRequest) (selection.Result, error) {
	in := a.Stdin
	if req.stdinConsumed || !tui.IsTerminal(in) {
		tty, err := os.OpenFile(ttyPath, os.O_RDWR, 0)
		if err != nil {
			return selection.Result{}, notATerminal(err)
		}
		defer tty.Close()
		in = tty
	}

	src := rawterm.NewSource(in, rawterm.WithLogger(a.Logger()))
	if err := src.Enable(); err != nil {
		return selection.Result{}, notATerminal(err)
	}
	defer func() {
		if err := src.Restore(); err != nil {
			a.Logger().Warn("failed to restore terminal", "error", err)
		}
	}()

	renderer := tui.NewLineRenderer(a.uiOutput())
	var (
		result selection.Result
		done   bool
	)
	record := func(r selection.Result) { result, done = r, true }

	w := selection.New(req.config, renderer, src,
		selection.WithLogger(a.Logger()),
		selection.WithListener(selection.ListenerFuncs{OnCancel: record}),
	).AddOptions(req.options...)
	if err := w.Start(record); err != nil {
		return selection.Result{}, err
	}

	runErr := src.Run(ctx)
	if !done {
		_ = renderer.Close()
		if runErr == nil {
			runErr = tui.ErrAborted
		}
		return selection.Result{}, runErr
	}
	if result.Cancelled() {
		if err := renderer.Notice(result.Message, req.config.MsgCancelColor); err != nil {
			a.Logger().Warn("failed to print cancel message", "error", err)
		}
	}
	if runErr != nil {
		return result, runErr
	}
	return result, result.Err()
}

func notATerminal(err error) error {
	return usageError(issue.NewErrorContext().
		WithOperation("open terminal").
		WithResource(ttyPath).
		WithSuggestion("Run selectshell from an interactive terminal").
		WithIssue(issue.NotATerminalId).
		Wrap(err).
		BuildError())
}
