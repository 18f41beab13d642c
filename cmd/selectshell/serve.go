// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/selectshell/selectshell/internal/issue"
	"github.com/selectshell/selectshell/internal/optionsource"
	"github.com/selectshell/selectshell/internal/sshserver"
	"github.com/selectshell/selectshell/internal/watch"
)

type serveFlags struct {
	pickerFlags
	host     string
	port     int
	hostKey  string
	tokenTTL time.Duration
	output   string
	watch    bool
}

func newServeCommand(app *App) *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve [options...]",
		Short: "Serve the picker over SSH",
		Long: `Serve the picker over SSH.

Every SSH session gets its own picker over the same options. Clients log in
with the access token printed at startup as their password. Each session's
picks are printed on standard output and written back to the client.`,
		Example: `  selectshell serve --port 2323 red green blue
  selectshell serve --file envs.yaml --host 0.0.0.0
  selectshell serve --file envs.yaml --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), app, cmd.Flags(), flags, args)
		},
	}
	flags.bind(cmd.Flags())
	cmd.Flags().StringVar(&flags.host, "host", "", "address to listen on (default from config)")
	cmd.Flags().IntVarP(&flags.port, "port", "p", 0, "port to listen on (default from config)")
	cmd.Flags().StringVar(&flags.hostKey, "host-key", "", "host key file, created when missing")
	cmd.Flags().DurationVar(&flags.tokenTTL, "token-ttl", 0, "lifetime of the access token (0 never expires)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", string(OutputText), "output format for session results: text, json or shell")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "reload --file for new sessions when it changes")
	return cmd
}

func runServe(ctx context.Context, app *App, fs *pflag.FlagSet, flags *serveFlags, args []string) error {
	format := OutputFormat(flags.output)
	if ok, errs := format.IsValid(); !ok {
		return usageError(errs[0])
	}
	if flags.watch && (flags.file == "" || len(args) > 0) {
		return usageError(errors.New("--watch needs options from --file"))
	}

	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	widgetCfg, err := flags.widgetConfig(cfg, fs)
	if err != nil {
		return err
	}
	opts, _, err := flags.collectOptions(args, app.Stdin)
	if err != nil {
		return err
	}

	srvCfg := sshserver.DefaultConfig()
	srvCfg.Host = cfg.SSH.Host
	srvCfg.Port = cfg.SSH.Port
	srvCfg.HostKeyPath = cfg.SSH.HostKeyPath
	srvCfg.IdleTimeout = cfg.SSH.IdleTimeout
	if fs.Changed("host") {
		srvCfg.Host = flags.host
	}
	if fs.Changed("port") {
		srvCfg.Port = flags.port
	}
	if fs.Changed("host-key") {
		srvCfg.HostKeyPath = flags.hostKey
	}
	srvCfg.TokenTTL = flags.tokenTTL
	srvCfg.Picker = widgetCfg
	srvCfg.Options = opts

	var outMu sync.Mutex
	srvCfg.OnResult = func(r sshserver.SessionResult) {
		if r.Result.Cancelled() {
			return
		}
		outMu.Lock()
		defer outMu.Unlock()
		if err := writeResult(app.Stdout, r.Result, format); err != nil {
			app.Logger().Error("failed to write session result", "session", r.SessionID, "error", err)
		}
	}

	srv := sshserver.New(srvCfg, sshserver.WithLogger(app.Logger().WithPrefix("ssh")))
	if err := srv.Start(ctx); err != nil {
		return issue.NewErrorContext().
			WithOperation("start ssh server").
			WithResource(fmt.Sprintf("%s:%d", srvCfg.Host, srvCfg.Port)).
			WithSuggestion("Pick another port with --port").
			WithIssue(issue.SSHServerStartFailedId).
			Wrap(err).
			BuildError()
	}

	token, err := srv.GenerateToken()
	if err != nil {
		_ = srv.Stop()
		return err
	}
	fmt.Fprintln(app.Stderr, TitleStyle.Render("selectshell")+" "+SubtitleStyle.Render("serving "+fmt.Sprint(len(opts))+" options"))
	fmt.Fprintln(app.Stderr, CmdStyle.Render(srv.Banner(token)))

	if flags.watch {
		stopWatch, err := watchOptions(ctx, app, flags.file, srv)
		if err != nil {
			_ = srv.Stop()
			return err
		}
		defer stopWatch()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-srv.Err():
		if ok {
			runErr = err
		}
	}
	if err := srv.Stop(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// watchOptions reloads the options file into srv whenever it changes. A
// file that fails to load leaves the previous options in place.
func watchOptions(ctx context.Context, app *App, path string, srv *sshserver.Server) (func(), error) {
	logger := app.Logger().WithPrefix("watch")
	w, err := watch.New(watch.Config{
		Files:  []string{path},
		Logger: logger,
		OnChange: func(context.Context, []string) error {
			opts, err := optionsource.LoadFile(path)
			if err != nil {
				return err
			}
			return srv.SetOptions(opts)
		},
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil {
			logger.Error("options watcher stopped", "error", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}, nil
}
