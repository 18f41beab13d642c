// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/selectshell/selectshell/internal/config"
	"github.com/selectshell/selectshell/internal/issue"
)

// staticProvider returns defaults without looking at the context.
type staticProvider struct{}

func (staticProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return config.DefaultConfig(), nil
}

func TestServe_UsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"bad output", []string{"serve", "-o", "yaml", "a"}},
		{"negative limit", []string{"serve", "--limit", "-1", "a"}},
		{"single and multi", []string{"serve", "--single", "--multi", "a"}},
		{"no options", []string{"serve"}},
		{"watch without file", []string{"serve", "--watch", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app, _, _ := testApp(t, "")
			err := execute(t, app, tt.args...)
			if exitCode(err) != int(ExitUsage) {
				t.Errorf("expected exit code %d, got %v", ExitUsage, err)
			}
		})
	}
}

func TestServe_StartFailure(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	app, _, _ := testApp(t, "")
	app.Config = staticProvider{}
	err := executeContext(t, ctx, app, "serve", "--port", "0", "a", "b")

	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueID != issue.SSHServerStartFailedId {
		t.Fatalf("expected a start failure, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cause should be the cancelled context, got %v", err)
	}
}
