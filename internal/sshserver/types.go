// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/selectshell/selectshell/internal/selection"
)

const (
	// StateCreated indicates the server has been created but not started.
	StateCreated ServerState = iota
	// StateStarting indicates the server is binding its listener.
	StateStarting
	// StateRunning indicates the server is accepting connections.
	StateRunning
	// StateStopping indicates the server is shutting down.
	StateStopping
	// StateStopped is terminal.
	StateStopped
	// StateFailed is terminal.
	StateFailed
)

var (
	// ErrInvalidTokenValue is the sentinel error wrapped by InvalidTokenValueError.
	ErrInvalidTokenValue = errors.New("invalid token value")
	// ErrInvalidSSHConfig is the sentinel error wrapped by InvalidSSHConfigError.
	ErrInvalidSSHConfig = errors.New("invalid SSH server config")
	// ErrNoOptions is returned by Start when there is nothing to pick from.
	ErrNoOptions = errors.New("no options to serve")
)

type (
	// ServerState represents the lifecycle state of the server.
	ServerState int32

	// TokenValue is an access token clients send as their SSH password.
	TokenValue string

	// Token is an issued access token.
	Token struct {
		Value     TokenValue
		CreatedAt time.Time
		// ExpiresAt is zero for tokens that never expire.
		ExpiresAt time.Time
	}

	// SessionResult is what one SSH session picked.
	SessionResult struct {
		SessionID  uuid.UUID
		User       string
		RemoteAddr string
		Result     selection.Result
	}

	// Config holds immutable configuration for the SSH server.
	Config struct {
		// Host is the address to bind to (default: 127.0.0.1).
		Host string
		// Port is the port to listen on (0 = auto-select).
		Port int
		// HostKeyPath is created when missing. Empty uses an in-memory key.
		HostKeyPath string
		// IdleTimeout closes quiet connections. Zero disables it.
		IdleTimeout time.Duration
		// TokenTTL bounds token lifetime. Zero means tokens never expire.
		TokenTTL time.Duration
		// ShutdownTimeout is the timeout for graceful shutdown (default: 10s).
		ShutdownTimeout time.Duration
		// StartupTimeout is the max time to wait for the server to be ready (default: 5s).
		StartupTimeout time.Duration

		// Picker and Options configure the widget built for each session.
		Picker  selection.Config
		Options []selection.Option

		// OnResult is called after each session that committed or cancelled.
		OnResult func(SessionResult)
	}

	// InvalidTokenValueError is returned when a TokenValue is empty or
	// whitespace-only.
	InvalidTokenValueError struct {
		Value TokenValue
	}

	// InvalidSSHConfigError collects field-level validation errors of a
	// Config. It wraps ErrInvalidSSHConfig.
	InvalidSSHConfigError struct {
		FieldErrors []error
	}
)

// String returns a human-readable representation of the server state.
func (s ServerState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// String returns the token value.
func (t TokenValue) String() string { return string(t) }

// Validate returns nil if the token is non-empty.
func (t TokenValue) Validate() error {
	if strings.TrimSpace(string(t)) == "" {
		return &InvalidTokenValueError{Value: t}
	}
	return nil
}

// Expired reports whether the token has expired at now.
func (t *Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		ShutdownTimeout: 10 * time.Second,
		StartupTimeout:  5 * time.Second,
		IdleTimeout:     10 * time.Minute,
		Picker:          selection.DefaultConfig(),
	}
}

// Validate checks the listener and timeout fields.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Host) == "" {
		errs = append(errs, errors.New("host must be non-empty"))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range 0-65535", c.Port))
	}
	if c.IdleTimeout < 0 || c.TokenTTL < 0 || c.ShutdownTimeout < 0 || c.StartupTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	if ok, limitErrs := c.Picker.OptionsLimit.IsValid(); !ok {
		errs = append(errs, limitErrs...)
	}
	if len(errs) > 0 {
		return &InvalidSSHConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidTokenValueError.
func (e *InvalidTokenValueError) Error() string {
	return fmt.Sprintf("invalid token value %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidTokenValue for errors.Is() compatibility.
func (e *InvalidTokenValueError) Unwrap() error { return ErrInvalidTokenValue }

// Error implements the error interface for InvalidSSHConfigError.
func (e *InvalidSSHConfigError) Error() string {
	return fmt.Sprintf("invalid SSH server config: %s", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidSSHConfig and the field errors.
func (e *InvalidSSHConfigError) Unwrap() []error {
	return append([]error{ErrInvalidSSHConfig}, e.FieldErrors...)
}
