// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/fang"

	"github.com/selectshell/selectshell/internal/issue"
)

//nolint:tparallel // mutates package-level version variables
func TestGetVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = origVersion, origCommit, origDate })

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}

	Version, Commit, BuildDate = "1.2.3", "abc123", "2026-01-02"
	if got := getVersionString(); got != "1.2.3 (commit: abc123, built: 2026-01-02)" {
		t.Errorf("getVersionString() = %q", got)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain error", errors.New("boom"), 1},
		{"cancelled", &ExitError{Code: ExitCancelled}, 1},
		{"usage", usageError(errors.New("bad flag")), 2},
		{"wrapped usage", fmt.Errorf("run: %w", usageError(errors.New("bad flag"))), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	actionable := usageError(issue.NewErrorContext().
		WithOperation("read options").
		WithResource("envs.toml").
		WithSuggestion("Check the path").
		WithIssue(issue.OptionsFileNotFoundId).
		BuildError())

	tests := []struct {
		name     string
		err      error
		verbose  bool
		contains []string
		empty    bool
	}{
		{name: "bare exit code is silent", err: &ExitError{Code: ExitCancelled}, empty: true},
		{
			name:     "actionable error",
			err:      actionable,
			contains: []string{"failed to read options: envs.toml", "• Check the path"},
		},
		{
			name:     "verbose renders the issue",
			err:      actionable,
			verbose:  true,
			contains: []string{"failed to read options", "Options"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			handler := errorHandler(&App{Verbose: tt.verbose})
			handler(&buf, fang.Styles{}, tt.err)

			if tt.empty {
				if buf.Len() != 0 {
					t.Errorf("expected no output, got %q", buf.String())
				}
				return
			}
			for _, s := range tt.contains {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("output missing %q:\n%s", s, buf.String())
				}
			}
		})
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain failure")
	if got := formatErrorForDisplay(plain, true); got != "plain failure" {
		t.Errorf("plain errors should print as is, got %q", got)
	}

	ae := &issue.ActionableError{Operation: "open terminal", Cause: errors.New("no tty")}
	got := formatErrorForDisplay(fmt.Errorf("pick: %w", ae), true)
	if !strings.HasPrefix(got, "failed to open terminal: no tty") || !strings.Contains(got, "Error chain:") {
		t.Errorf("formatErrorForDisplay() = %q", got)
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	if got := (&ExitError{Code: 3}).Error(); got != "exit status 3" {
		t.Errorf("Error() = %q", got)
	}
	cause := errors.New("bad flag")
	err := usageError(cause)
	if err.Error() != "bad flag" || !errors.Is(err, cause) {
		t.Errorf("usageError should wrap its cause, got %v", err)
	}
	if usageError(nil) != nil {
		t.Error("usageError(nil) should be nil")
	}
}

func TestKeysCommand(t *testing.T) {
	t.Parallel()

	app, stdout, _ := testApp(t, "")
	if err := execute(t, app, "keys", "--style", "notty"); err != nil {
		t.Fatalf("keys error: %v", err)
	}
	for _, want := range []string{"enter", "esc"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("keys output missing %q:\n%s", want, stdout.String())
		}
	}
}
