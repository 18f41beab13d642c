// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/selectshell/selectshell/internal/config"
	"github.com/selectshell/selectshell/internal/issue"
)

// newConfigCommand creates the `selectshell config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage selectshell configuration",
		Long: `Manage selectshell configuration.

Configuration is stored in:
  - Linux: ~/.config/selectshell/config.cue
  - macOS: ~/Library/Application Support/selectshell/config.cue
  - Windows: %APPDATA%\selectshell\config.cue

Every key can also be set with a SELECTSHELL_ environment variable, for
example SELECTSHELL_OPTIONS_LIMIT=10 or SELECTSHELL_SSH_PORT=2222.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	loaded, err := config.LoadWithPath(ctx, app.loadOptions())
	if err != nil {
		if rendered, renderErr := issue.Get(issue.ConfigLoadFailedId).Render("dark"); renderErr == nil {
			fmt.Fprint(app.Stderr, rendered)
		}
		return usageError(err)
	}

	source := SubtitleStyle.Render("(using defaults)")
	if loaded.Path != "" {
		source = loaded.Path
	}
	fmt.Fprintf(app.Stderr, "%s: %s\n\n", CmdStyle.Render("Config file"), source)
	fmt.Fprint(app.Stdout, config.GenerateCUE(loaded.Config))
	return nil
}

func initConfig(app *App) error {
	path, err := config.CreateDefaultConfig(app.ConfigDir)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	fmt.Fprintf(app.Stdout, "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(app *App) error {
	if app.ConfigFile != "" {
		fmt.Fprintln(app.Stdout, app.ConfigFile)
		return nil
	}
	path, err := config.ConfigPath(app.ConfigDir)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.Stdout, path)
	return nil
}
