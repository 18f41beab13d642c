// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/selectshell/selectshell/internal/config"
)

// App carries the process-wide dependencies the commands share.
type App struct {
	Config config.Provider

	Stdin  *os.File
	Stdout io.Writer
	Stderr io.Writer

	// ConfigFile and ConfigDir are the --config overrides.
	ConfigFile string
	ConfigDir  string
	Verbose    bool
	LogLevel   string

	logger *log.Logger
}

// NewApp returns an App bound to the process streams.
func NewApp() *App {
	return &App{
		Config: config.NewProvider(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// loadConfig loads configuration and sets up the logger from it.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		return nil, usageError(err)
	}
	if a.LogLevel != "" {
		cfg.LogLevel = a.LogLevel
	}
	a.logger = log.NewWithOptions(a.Stderr, log.Options{
		Prefix: config.AppName,
		Level:  cfg.Level(),
	})
	return cfg, nil
}

func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: a.ConfigFile, ConfigDirPath: a.ConfigDir}
}

// Logger returns the application logger. Before configuration is loaded it
// only reports errors.
func (a *App) Logger() *log.Logger {
	if a.logger == nil {
		a.logger = log.NewWithOptions(a.Stderr, log.Options{Prefix: config.AppName, Level: log.ErrorLevel})
	}
	return a.logger
}
