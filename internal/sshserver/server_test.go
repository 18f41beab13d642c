// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"bytes"
	"context"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gossh "golang.org/x/crypto/ssh"

	"github.com/selectshell/selectshell/internal/selection"
	"github.com/selectshell/selectshell/internal/testutil"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Port = 0
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "host_ed25519")
	cfg.Options = []selection.Option{selection.NewOption("a"), selection.NewOption("b")}
	return cfg
}

func mustStart(t *testing.T, srv *Server) {
	t.Helper()
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	t.Cleanup(func() {
		if err := srv.Stop(); err != nil {
			t.Errorf("Stop() error: %v", err)
		}
	})
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	srv := New(testConfig(t))
	token, err := srv.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	if token.Value.Validate() != nil {
		t.Error("token value should not be empty")
	}
	if !token.ExpiresAt.IsZero() {
		t.Error("tokens should not expire without a TTL")
	}

	other, _ := srv.GenerateToken()
	if other.Value == token.Value {
		t.Error("tokens should be unique")
	}
}

func TestValidateAndRevokeToken(t *testing.T) {
	t.Parallel()

	srv := New(testConfig(t))
	token, err := srv.GenerateToken()
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := srv.ValidateToken(token.Value); !ok {
		t.Error("token should be valid")
	}
	if _, ok := srv.ValidateToken("nope"); ok {
		t.Error("unknown token should not be valid")
	}
	if _, ok := srv.ValidateToken(""); ok {
		t.Error("empty token should not be valid")
	}

	srv.RevokeToken(token.Value)
	if _, ok := srv.ValidateToken(token.Value); ok {
		t.Error("revoked token should not be valid")
	}
}

func TestExpiredToken(t *testing.T) {
	t.Parallel()

	clock := testutil.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	cfg := testConfig(t)
	cfg.TokenTTL = time.Minute
	srv := New(cfg, WithClock(clock.Now))

	token, err := srv.GenerateToken()
	if err != nil {
		t.Fatal(err)
	}
	stale, _ := srv.GenerateToken()

	clock.Advance(2 * time.Minute)
	if _, ok := srv.ValidateToken(token.Value); ok {
		t.Error("expired token should not be valid")
	}

	srv.pruneTokens()
	srv.tokenMu.RLock()
	_, kept := srv.tokens[stale.Value]
	srv.tokenMu.RUnlock()
	if kept {
		t.Error("pruneTokens should drop expired tokens")
	}
}

func TestServerStartStop(t *testing.T) {
	t.Parallel()

	srv := New(testConfig(t))
	if srv.State() != StateCreated || srv.IsRunning() {
		t.Fatalf("new server state = %s", srv.State())
	}
	if srv.Address() != "" {
		t.Error("Address() should be empty before Start()")
	}

	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	if !srv.IsRunning() {
		t.Errorf("State should be Running, got %s", srv.State())
	}
	if srv.Port() == 0 || !strings.Contains(srv.Address(), ":") {
		t.Errorf("address not assigned: %q", srv.Address())
	}

	if err := srv.Start(context.Background()); err == nil {
		t.Error("second Start() should fail")
	}

	if err := srv.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if srv.State() != StateStopped {
		t.Errorf("State should be Stopped, got %s", srv.State())
	}
	if err := srv.Stop(); err != nil {
		t.Errorf("second Stop() should be a no-op, got %v", err)
	}
	if err := srv.Wait(); err != nil {
		t.Errorf("Wait() after Stop() = %v", err)
	}
}

func TestServerStartFailures(t *testing.T) {
	t.Parallel()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		mutate  func(*Config)
		wantErr error
	}{
		{"cancelled context", cancelled, func(*Config) {}, context.Canceled},
		{"no options", context.Background(), func(c *Config) { c.Options = nil }, ErrNoOptions},
		{"invalid config", context.Background(), func(c *Config) { c.Port = 99999 }, ErrInvalidSSHConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig(t)
			tt.mutate(&cfg)
			srv := New(cfg)

			err := srv.Start(tt.ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Start() error = %v, want %v", err, tt.wantErr)
			}
			if srv.State() != StateFailed {
				t.Errorf("State should be Failed, got %s", srv.State())
			}
			if !errors.Is(srv.Wait(), tt.wantErr) {
				t.Errorf("Wait() should return the start error")
			}
		})
	}
}

func TestServerStartWithUsedPort(t *testing.T) {
	t.Parallel()

	srv1 := New(testConfig(t))
	mustStart(t, srv1)

	cfg := testConfig(t)
	cfg.Port = srv1.Port()
	srv2 := New(cfg)
	if err := srv2.Start(context.Background()); err == nil {
		_ = srv2.Stop()
		t.Fatal("Start with used port should return error")
	}
	if srv2.State() != StateFailed {
		t.Errorf("State should be Failed, got %s", srv2.State())
	}
}

func TestStopWithoutStart(t *testing.T) {
	t.Parallel()

	srv := New(testConfig(t))
	if err := srv.Stop(); err != nil {
		t.Errorf("Stop() without Start() should not error, got %v", err)
	}
	if srv.State() != StateStopped {
		t.Errorf("State should be Stopped, got %s", srv.State())
	}
}

func TestIsClosedConnError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"other", errors.New("boom"), false},
		{"net.ErrClosed", net.ErrClosed, true},
		{"op error", &net.OpError{Op: "accept", Err: errors.New("use of closed network connection")}, true},
	}

	for _, tt := range tests {
		if got := isClosedConnError(tt.err); got != tt.want {
			t.Errorf("%s: isClosedConnError() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func dial(t *testing.T, srv *Server, password string) (*gossh.Client, error) {
	t.Helper()
	return gossh.Dial("tcp", srv.Address(), &gossh.ClientConfig{
		User:            "tester",
		Auth:            []gossh.AuthMethod{gossh.Password(password)},
		HostKeyCallback: gossh.InsecureIgnoreHostKey(), //nolint:gosec // test server
		Timeout:         5 * time.Second,
	})
}

func TestPasswordAuth(t *testing.T) {
	t.Parallel()

	srv := New(testConfig(t))
	mustStart(t, srv)

	if client, err := dial(t, srv, "wrong"); err == nil {
		_ = client.Close()
		t.Fatal("dial with a bad token should fail")
	}

	token, err := srv.GenerateToken()
	if err != nil {
		t.Fatal(err)
	}
	client, err := dial(t, srv, token.Value.String())
	if err != nil {
		t.Fatalf("dial with a valid token failed: %v", err)
	}
	_ = client.Close()
}

func TestSessionWithoutPTY(t *testing.T) {
	t.Parallel()

	srv := New(testConfig(t))
	mustStart(t, srv)
	token, _ := srv.GenerateToken()

	client, err := dial(t, srv, token.Value.String())
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	sess, err := client.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()

	out, err := sess.CombinedOutput("")
	var exitErr *gossh.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitStatus() != 1 {
		t.Fatalf("expected exit status 1, got %v", err)
	}
	if !strings.Contains(string(out), "Requires an active PTY") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestSessionPicksOverSSH(t *testing.T) {
	t.Parallel()

	results := make(chan SessionResult, 1)
	cfg := testConfig(t)
	cfg.Picker.MultiSelect = false
	cfg.OnResult = func(r SessionResult) { results <- r }

	srv := New(cfg)
	mustStart(t, srv)
	token, _ := srv.GenerateToken()

	client, err := dial(t, srv, token.Value.String())
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	sess, err := client.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()

	if err := sess.RequestPty("xterm", 24, 80, gossh.TerminalModes{}); err != nil {
		t.Fatalf("RequestPty() error: %v", err)
	}
	var stdout bytes.Buffer
	sess.Stdout = &stdout
	sess.Stdin = strings.NewReader("\x1b[B\r")

	done := make(chan error, 1)
	go func() { done <- sess.Run("") }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("session ended with %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("session did not finish")
	}

	select {
	case r := <-results:
		if r.Result.Value() != "b" {
			t.Errorf("picked %v, want b", r.Result.Value())
		}
		if r.User != "tester" {
			t.Errorf("user = %q", r.User)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("OnResult was not called")
	}

	if !strings.Contains(stdout.String(), "b\r\n") {
		t.Errorf("value not written to the session: %q", stdout.String())
	}
	deadline := time.Now().Add(5 * time.Second)
	for srv.SessionsServed() != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if srv.SessionsServed() != 1 || srv.ActiveSessions() != 0 {
		t.Errorf("served %d, active %d", srv.SessionsServed(), srv.ActiveSessions())
	}
}

func TestSetOptions(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	srv := New(cfg)

	cfg.Options[0] = selection.NewOption("mutated")
	if got := srv.Options(); got[0].Label != "a" {
		t.Errorf("New should copy the options, got %q", got[0].Label)
	}

	if err := srv.SetOptions(nil); !errors.Is(err, ErrNoOptions) {
		t.Errorf("SetOptions(nil) = %v, want ErrNoOptions", err)
	}
	if err := srv.SetOptions([]selection.Option{selection.NewOption("c")}); err != nil {
		t.Fatalf("SetOptions() error: %v", err)
	}
	got := srv.Options()
	if len(got) != 1 || got[0].Label != "c" {
		t.Errorf("Options() = %v, want [c]", got)
	}
}
