// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/selectshell/selectshell/internal/config"
)

// testApp returns an App with captured output, an isolated config
// directory, and stdin fed from a pipe carrying input.
func testApp(t *testing.T, input string) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error: %v", err)
	}
	if _, err := w.WriteString(input); err != nil {
		t.Fatalf("write stdin: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = r.Close() })

	var stdout, stderr bytes.Buffer
	return &App{
		Config:    config.NewProvider(),
		Stdin:     r,
		Stdout:    &stdout,
		Stderr:    &stderr,
		ConfigDir: t.TempDir(),
	}, &stdout, &stderr
}

func execute(t *testing.T, app *App, args ...string) error {
	t.Helper()
	return executeContext(t, context.Background(), app, args...)
}

func executeContext(t *testing.T, ctx context.Context, app *App, args ...string) error {
	t.Helper()
	root := newRootCommand(app)
	root.SilenceErrors = true
	root.SilenceUsage = true
	root.SetOut(app.Stdout)
	root.SetErr(app.Stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
