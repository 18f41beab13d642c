// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/selectshell/selectshell/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "selectshell"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. SELECTSHELL_OPTIONS_LIMIT.
	EnvPrefix = "SELECTSHELL"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the selectshell configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// ConfigPath returns the path of the default config file.
//
//nolint:revive // ConfigPath mirrors ConfigDir
func ConfigPath(configDirPath string) (string, error) {
	dir, err := configDirWithOverride(configDirPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// newViper returns a viper instance carrying every default and wired to
// SELECTSHELL_* environment overrides.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("pointer", defaults.Pointer)
	v.SetDefault("pointer_color", defaults.PointerColor)
	v.SetDefault("checked", defaults.Checked)
	v.SetDefault("unchecked", defaults.Unchecked)
	v.SetDefault("checked_color", defaults.CheckedColor)
	v.SetDefault("msg_cancel", defaults.MsgCancel)
	v.SetDefault("msg_cancel_color", defaults.MsgCancelColor)
	v.SetDefault("up_arrow", defaults.UpArrow)
	v.SetDefault("down_arrow", defaults.DownArrow)
	v.SetDefault("arrow_color", defaults.ArrowColor)
	v.SetDefault("multi_select", defaults.MultiSelect)
	v.SetDefault("inverse", defaults.Inverse)
	v.SetDefault("prepend", defaults.Prepend)
	v.SetDefault("clear_before_select", defaults.ClearBeforeSelect)
	v.SetDefault("clear_before_cancel", defaults.ClearBeforeCancel)
	v.SetDefault("options_limit", defaults.OptionsLimit)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("backend", string(defaults.Backend))
	v.SetDefault("ssh.host", defaults.SSH.Host)
	v.SetDefault("ssh.port", defaults.SSH.Port)
	v.SetDefault("ssh.host_key_path", defaults.SSH.HostKeyPath)
	v.SetDefault("ssh.idle_timeout", defaults.SSH.IdleTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()
	resolvedPath := ""

	// A file given with --config is used exclusively.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'selectshell config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, "", invalidFileError(opts.ConfigFilePath, err)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cuePath, err := ConfigPath(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}
		if fileExists(cuePath) {
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", invalidFileError(cuePath, err)
			}
			resolvedPath = cuePath
		}
		// No config file: defaults and environment only.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check SELECTSHELL_* environment variables for typos").
			WithSuggestion("Run 'selectshell config show' to inspect the effective configuration").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func invalidFileError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("See 'selectshell config --help' for configuration options").
		Wrap(err).
		BuildError()
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := checkFileSize(data, maxConfigFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	// Optional fields make the file valid without every value present.
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file unless one exists, and
// returns its path.
func CreateDefaultConfig(configDirPath string) (string, error) {
	cfgPath, err := ConfigPath(configDirPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return cfgPath, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// selectshell configuration file\n")
	sb.WriteString("// Environment variables prefixed with SELECTSHELL_ override these values.\n\n")

	fmt.Fprintf(&sb, "pointer: %q\n", cfg.Pointer)
	fmt.Fprintf(&sb, "pointer_color: %q\n", cfg.PointerColor)
	fmt.Fprintf(&sb, "checked: %q\n", cfg.Checked)
	fmt.Fprintf(&sb, "unchecked: %q\n", cfg.Unchecked)
	fmt.Fprintf(&sb, "checked_color: %q\n", cfg.CheckedColor)
	fmt.Fprintf(&sb, "msg_cancel: %q\n", cfg.MsgCancel)
	fmt.Fprintf(&sb, "msg_cancel_color: %q\n", cfg.MsgCancelColor)
	fmt.Fprintf(&sb, "up_arrow: %q\n", cfg.UpArrow)
	fmt.Fprintf(&sb, "down_arrow: %q\n", cfg.DownArrow)
	fmt.Fprintf(&sb, "arrow_color: %q\n", cfg.ArrowColor)

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "multi_select: %v\n", cfg.MultiSelect)
	fmt.Fprintf(&sb, "inverse: %v\n", cfg.Inverse)
	fmt.Fprintf(&sb, "prepend: %v\n", cfg.Prepend)
	fmt.Fprintf(&sb, "clear_before_select: %v\n", cfg.ClearBeforeSelect)
	fmt.Fprintf(&sb, "clear_before_cancel: %v\n", cfg.ClearBeforeCancel)
	fmt.Fprintf(&sb, "options_limit: %d\n", cfg.OptionsLimit)

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "log_level: %q\n", cfg.LogLevel)
	fmt.Fprintf(&sb, "backend: %q\n", cfg.Backend)

	sb.WriteString("\nssh: {\n")
	fmt.Fprintf(&sb, "\thost: %q\n", cfg.SSH.Host)
	fmt.Fprintf(&sb, "\tport: %d\n", cfg.SSH.Port)
	if cfg.SSH.HostKeyPath != "" {
		fmt.Fprintf(&sb, "\thost_key_path: %q\n", cfg.SSH.HostKeyPath)
	}
	fmt.Fprintf(&sb, "\tidle_timeout: %q\n", cfg.SSH.IdleTimeout.String())
	sb.WriteString("}\n")

	return sb.String()
}
