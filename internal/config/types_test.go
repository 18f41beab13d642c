// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/selectshell/selectshell/internal/selection"
)

func TestBackend_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		b       Backend
		want    bool
		wantErr bool
	}{
		{BackendTea, true, false},
		{BackendRaw, true, false},
		{"", false, true},
		{"tcell", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.b), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.b.IsValid()
			if isValid != tt.want {
				t.Errorf("Backend(%q).IsValid() = %v, want %v", tt.b, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("Backend(%q).IsValid() returned no errors, want error", tt.b)
				}
				if !errors.Is(errs[0], ErrInvalidBackend) {
					t.Errorf("error should wrap ErrInvalidBackend, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("Backend(%q).IsValid() returned unexpected errors: %v", tt.b, errs)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"defaults", func(*Config) {}, nil},
		{"negative limit", func(c *Config) { c.OptionsLimit = -2 }, selection.ErrInvalidOptionsLimit},
		{"bad backend", func(c *Config) { c.Backend = "gui" }, ErrInvalidBackend},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, ErrInvalidLogLevel},
		{"bad port", func(c *Config) { c.SSH.Port = -1 }, ErrInvalidSSHConfig},
		{"negative idle timeout", func(c *Config) { c.SSH.IdleTimeout = -1 }, ErrInvalidSSHConfig},
		{"whitespace host key", func(c *Config) { c.SSH.HostKeyPath = "  " }, ErrInvalidSSHConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error should wrap ErrInvalidConfig, got: %v", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error should wrap %v, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_Level(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Level() != log.WarnLevel {
		t.Errorf("default level = %s, want warn", cfg.Level())
	}
	cfg.LogLevel = "debug"
	if cfg.Level() != log.DebugLevel {
		t.Errorf("level = %s, want debug", cfg.Level())
	}
	cfg.LogLevel = "nonsense"
	if cfg.Level() != log.WarnLevel {
		t.Errorf("invalid level should fall back to warn, got %s", cfg.Level())
	}
}
