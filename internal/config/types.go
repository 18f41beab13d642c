// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/selectshell/selectshell/internal/selection"
)

const (
	// BackendTea drives the picker with Bubble Tea.
	BackendTea Backend = "tea"
	// BackendRaw reads raw terminal bytes and draws lines in place.
	BackendRaw Backend = "raw"

	// DefaultLogLevel is the log level used when none is configured.
	DefaultLogLevel = "warn"
	// DefaultSSHHost is the default SSH listen address.
	DefaultSSHHost = "127.0.0.1"
	// DefaultSSHPort is the default SSH port.
	DefaultSSHPort = 23234
	// DefaultIdleTimeout closes idle SSH sessions.
	DefaultIdleTimeout = 10 * time.Minute
)

var (
	// ErrInvalidBackend is the sentinel error wrapped by InvalidBackendError.
	ErrInvalidBackend = errors.New("invalid backend")
	// ErrInvalidLogLevel is the sentinel error wrapped by InvalidLogLevelError.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidSSHConfig is the sentinel error wrapped by InvalidSSHConfigError.
	ErrInvalidSSHConfig = errors.New("invalid ssh config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Backend selects how the picker talks to the terminal.
	Backend string

	// InvalidBackendError is returned when a Backend value is not recognized.
	// It wraps ErrInvalidBackend for errors.Is() compatibility.
	InvalidBackendError struct {
		Value Backend
	}

	// InvalidLogLevelError is returned when a log level cannot be parsed.
	InvalidLogLevelError struct {
		Value string
	}

	// InvalidSSHConfigError is returned when an SSHConfig has invalid fields.
	InvalidSSHConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// SSHConfig configures `selectshell serve`.
	SSHConfig struct {
		Host        string        `json:"host" mapstructure:"host"`
		Port        int           `json:"port" mapstructure:"port"`
		HostKeyPath string        `json:"host_key_path" mapstructure:"host_key_path"`
		IdleTimeout time.Duration `json:"idle_timeout" mapstructure:"idle_timeout"`
	}

	// Config is the application configuration. The picker fields mirror
	// selection.Config; see Widget.
	Config struct {
		Pointer           string `json:"pointer" mapstructure:"pointer"`
		PointerColor      string `json:"pointer_color" mapstructure:"pointer_color"`
		Checked           string `json:"checked" mapstructure:"checked"`
		Unchecked         string `json:"unchecked" mapstructure:"unchecked"`
		CheckedColor      string `json:"checked_color" mapstructure:"checked_color"`
		MsgCancel         string `json:"msg_cancel" mapstructure:"msg_cancel"`
		MsgCancelColor    string `json:"msg_cancel_color" mapstructure:"msg_cancel_color"`
		UpArrow           string `json:"up_arrow" mapstructure:"up_arrow"`
		DownArrow         string `json:"down_arrow" mapstructure:"down_arrow"`
		ArrowColor        string `json:"arrow_color" mapstructure:"arrow_color"`
		MultiSelect       bool   `json:"multi_select" mapstructure:"multi_select"`
		Inverse           bool   `json:"inverse" mapstructure:"inverse"`
		Prepend           bool   `json:"prepend" mapstructure:"prepend"`
		ClearBeforeSelect bool   `json:"clear_before_select" mapstructure:"clear_before_select"`
		ClearBeforeCancel bool   `json:"clear_before_cancel" mapstructure:"clear_before_cancel"`
		OptionsLimit      int    `json:"options_limit" mapstructure:"options_limit"`

		LogLevel string    `json:"log_level" mapstructure:"log_level"`
		Backend  Backend   `json:"backend" mapstructure:"backend"`
		SSH      SSHConfig `json:"ssh" mapstructure:"ssh"`

		// Extra holds top-level keys this package does not know about.
		Extra map[string]any `json:"extra,omitempty" mapstructure:",remain"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	w := selection.DefaultConfig()
	return &Config{
		Pointer:           w.Pointer,
		PointerColor:      w.PointerColor,
		Checked:           w.Checked,
		Unchecked:         w.Unchecked,
		CheckedColor:      w.CheckedColor,
		MsgCancel:         w.MsgCancel,
		MsgCancelColor:    w.MsgCancelColor,
		UpArrow:           w.UpArrow,
		DownArrow:         w.DownArrow,
		ArrowColor:        w.ArrowColor,
		MultiSelect:       w.MultiSelect,
		Inverse:           w.Inverse,
		Prepend:           w.Prepend,
		ClearBeforeSelect: w.ClearBeforeSelect,
		ClearBeforeCancel: w.ClearBeforeCancel,
		OptionsLimit:      int(w.OptionsLimit),
		LogLevel:          DefaultLogLevel,
		Backend:           BackendTea,
		SSH: SSHConfig{
			Host:        DefaultSSHHost,
			Port:        DefaultSSHPort,
			IdleTimeout: DefaultIdleTimeout,
		},
	}
}

// Widget converts the configuration to a picker configuration. Unknown
// top-level keys are carried in selection.Config.Extra.
func (c *Config) Widget() selection.Config {
	w := selection.Config{
		Pointer:           c.Pointer,
		PointerColor:      c.PointerColor,
		Checked:           c.Checked,
		Unchecked:         c.Unchecked,
		CheckedColor:      c.CheckedColor,
		MsgCancel:         c.MsgCancel,
		MsgCancelColor:    c.MsgCancelColor,
		UpArrow:           c.UpArrow,
		DownArrow:         c.DownArrow,
		ArrowColor:        c.ArrowColor,
		MultiSelect:       c.MultiSelect,
		Inverse:           c.Inverse,
		Prepend:           c.Prepend,
		ClearBeforeSelect: c.ClearBeforeSelect,
		ClearBeforeCancel: c.ClearBeforeCancel,
		OptionsLimit:      selection.OptionsLimit(c.OptionsLimit),
	}
	if len(c.Extra) > 0 {
		w = w.Overlay(c.Extra)
	}
	return w
}

// Level returns the parsed log level, falling back to warn.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// Validate returns an error if any field is invalid.
func (c *Config) Validate() error {
	var errs []error
	if ok, fieldErrs := selection.OptionsLimit(c.OptionsLimit).IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.Backend.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, &InvalidLogLevelError{Value: c.LogLevel})
	}
	if err := c.SSH.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Validate returns an error if any SSH field is invalid.
func (s SSHConfig) Validate() error {
	var errs []error
	if s.Port < 0 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range 0-65535", s.Port))
	}
	if s.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("idle timeout %s must not be negative", s.IdleTimeout))
	}
	if s.HostKeyPath != "" && strings.TrimSpace(s.HostKeyPath) == "" {
		errs = append(errs, errors.New("host key path must not be whitespace-only"))
	}
	if len(errs) > 0 {
		return &InvalidSSHConfigError{FieldErrors: errs}
	}
	return nil
}

// Addr returns the host:port listen address.
func (s SSHConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// String returns the string representation of the Backend.
func (b Backend) String() string { return string(b) }

// IsValid returns whether the Backend is one of the defined backends.
func (b Backend) IsValid() (bool, []error) {
	switch b {
	case BackendTea, BackendRaw:
		return true, nil
	default:
		return false, []error{&InvalidBackendError{Value: b}}
	}
}

// Error implements the error interface for InvalidBackendError.
func (e *InvalidBackendError) Error() string {
	return fmt.Sprintf("invalid backend %q (valid: tea, raw)", e.Value)
}

// Unwrap returns ErrInvalidBackend for errors.Is() compatibility.
func (e *InvalidBackendError) Unwrap() error { return ErrInvalidBackend }

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Error implements the error interface for InvalidSSHConfigError.
func (e *InvalidSSHConfigError) Error() string {
	return fmt.Sprintf("invalid ssh config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidSSHConfig for errors.Is() compatibility.
func (e *InvalidSSHConfigError) Unwrap() error { return ErrInvalidSSHConfig }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility, plus the
// field errors so errors.Is can reach them.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
