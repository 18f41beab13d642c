// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the selectshell command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/selectshell/selectshell/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree. Running the root command without
// a subcommand behaves like pick.
func newRootCommand(app *App) *cobra.Command {
	pick := newPickCommand(app)

	rootCmd := &cobra.Command{
		Use:   "selectshell [options...]",
		Short: "Pick options from a list in the terminal",
		Long: TitleStyle.Render("selectshell") + SubtitleStyle.Render(" - pick options from a list in the terminal") + `

selectshell draws an interactive list, lets you check one or more options,
and prints the chosen values so scripts can use them.

` + SubtitleStyle.Render("Examples:") + `
  selectshell red green blue          Pick colours (multi-select)
  git branch --format='%(refname:short)' | selectshell --single
  selectshell pick -f envs.toml -o json
  selectshell serve --port 2323 a b c  Serve the picker over SSH
  selectshell config init              Write a default config file`,
		Args: cobra.ArbitraryArgs,
		RunE: pick.RunE,
	}
	rootCmd.Flags().AddFlagSet(pick.Flags())

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&app.Verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&app.ConfigFile, "config", "", "config file (default is $XDG_CONFIG_HOME/selectshell/config.cue)")
	pf.StringVar(&app.LogLevel, "log-level", "", "log level: debug, info, warn or error (default from config)")

	rootCmd.AddCommand(pick)
	rootCmd.AddCommand(newServeCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
	rootCmd.AddCommand(newKeysCommand(app))
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command line and exits with the command's status.
// It is called by main.main().
func Execute() {
	app := NewApp()
	err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler(app)),
	)
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.Code)
	}
	return 1
}

// errorHandler prints actionable errors with their suggestions and stays
// silent for bare exit codes such as a cancelled picker.
func errorHandler(app *App) fang.ErrorHandler {
	return func(w io.Writer, styles fang.Styles, err error) {
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Err == nil {
			return
		}
		var ae *issue.ActionableError
		if !errors.As(err, &ae) {
			fang.DefaultErrorHandler(w, styles, err)
			return
		}
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, app.Verbose))
		if app.Verbose {
			if iss := ae.Issue(); iss != nil {
				if rendered, renderErr := iss.Render("dark"); renderErr == nil {
					fmt.Fprint(w, rendered)
				}
			}
		}
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
