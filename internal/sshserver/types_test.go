// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"errors"
	"testing"
	"time"

	"github.com/selectshell/selectshell/internal/selection"
)

func TestServerStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state ServerState
		want  string
	}{
		{StateCreated, "created"},
		{StateStarting, "starting"},
		{StateRunning, "running"},
		{StateStopping, "stopping"},
		{StateStopped, "stopped"},
		{StateFailed, "failed"},
		{ServerState(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("ServerState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestTokenValue_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   TokenValue
		wantErr bool
	}{
		{"abc123", false},
		{"", true},
		{"   ", true},
	}

	for _, tt := range tests {
		err := tt.value.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("TokenValue(%q).Validate() error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidTokenValue) {
			t.Errorf("error should wrap ErrInvalidTokenValue, got %v", err)
		}
	}
}

func TestToken_Expired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	forever := &Token{Value: "a", CreatedAt: now}
	if forever.Expired(now.Add(1000 * time.Hour)) {
		t.Error("token without expiry should never expire")
	}

	short := &Token{Value: "b", CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
	if short.Expired(now) {
		t.Error("token should be valid before its expiry")
	}
	if !short.Expired(now.Add(2 * time.Minute)) {
		t.Error("token should be expired after its expiry")
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty host", func(c *Config) { c.Host = " " }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"negative port", func(c *Config) { c.Port = -1 }, true},
		{"negative idle timeout", func(c *Config) { c.IdleTimeout = -time.Second }, true},
		{"negative options limit", func(c *Config) { c.Picker.OptionsLimit = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSSHConfig) {
				t.Errorf("error should wrap ErrInvalidSSHConfig, got %v", err)
			}
		})
	}
}

func TestConfig_ValidateKeepsFieldErrors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Picker.OptionsLimit = -3
	err := cfg.Validate()

	if !errors.Is(err, selection.ErrInvalidOptionsLimit) {
		t.Errorf("field error should be reachable, got %v", err)
	}
	var cfgErr *InvalidSSHConfigError
	if !errors.As(err, &cfgErr) || len(cfgErr.FieldErrors) != 1 {
		t.Errorf("expected one field error, got %v", err)
	}
}
