// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"go.uber.org/atomic"
	"golang.org/x/exp/slices"

	"github.com/selectshell/selectshell/internal/selection"
)

type (
	// Server serves the picker over SSH.
	// A Server instance is single-use: once stopped or failed, create a new instance.
	Server struct {
		cfg Config

		state    *atomic.Int32
		sessions *atomic.Int32
		served   *atomic.Int64

		srvMu    sync.Mutex
		srv      *ssh.Server
		listener net.Listener
		addr     string

		ctx       context.Context
		cancel    context.CancelFunc
		wg        sync.WaitGroup
		startedCh chan struct{}
		errCh     chan error
		errMu     sync.Mutex
		lastErr   error

		tokens  map[TokenValue]*Token
		tokenMu sync.RWMutex

		optionsMu sync.RWMutex
		options   []selection.Option

		now    func() time.Time
		logger *log.Logger
	}

	// Option customises a Server.
	Option func(*Server)
)

// WithLogger sets the server logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now for token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a new SSH server instance.
// The server is not started; call Start() to begin accepting connections.
func New(cfg Config, opts ...Option) *Server {
	defaults := DefaultConfig()
	if cfg.Host == "" {
		cfg.Host = defaults.Host
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = defaults.StartupTimeout
	}

	s := &Server{
		cfg:       cfg,
		state:     atomic.NewInt32(int32(StateCreated)),
		sessions:  atomic.NewInt32(0),
		served:    atomic.NewInt64(0),
		startedCh: make(chan struct{}),
		errCh:     make(chan error, 1),
		tokens:    make(map[TokenValue]*Token),
		options:   slices.Clone(cfg.Options),
		now:       time.Now,
		logger:    log.NewWithOptions(io.Discard, log.Options{Prefix: "ssh-server"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current server state.
func (s *Server) State() ServerState {
	return ServerState(s.state.Load())
}

// IsRunning returns whether the server is currently running and accepting connections.
func (s *Server) IsRunning() bool {
	return s.State() == StateRunning
}

// ActiveSessions returns the number of connected picker sessions.
func (s *Server) ActiveSessions() int {
	return int(s.sessions.Load())
}

// SessionsServed returns the number of sessions that have finished.
func (s *Server) SessionsServed() int64 {
	return s.served.Load()
}

// Err returns a channel that receives fatal server errors.
// The channel is closed when the server stops.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// Address returns the server's bound address (host:port).
// Blocks until the server has started or failed.
// Returns empty string if server never started or failed.
func (s *Server) Address() string {
	if s.ctx == nil {
		return ""
	}
	select {
	case <-s.startedCh:
		s.srvMu.Lock()
		defer s.srvMu.Unlock()
		return s.addr
	case <-s.ctx.Done():
		return ""
	}
}

// Port returns the server's listening port, or 0 when not started.
func (s *Server) Port() int {
	addr := s.Address()
	if addr == "" {
		return 0
	}
	tcp, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return 0
	}
	return tcp.Port
}

// Host returns the server's configured host address.
func (s *Server) Host() string {
	return s.cfg.Host
}

// Wait blocks until the server stops (either gracefully or due to error).
// Returns the error if the server failed, nil otherwise.
func (s *Server) Wait() error {
	s.wg.Wait()
	if s.State() == StateFailed {
		return s.LastError()
	}
	return nil
}

// LastError returns the error that moved the server to StateFailed.
func (s *Server) LastError() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.lastErr
}

// isClosedConnError checks if the error is a "use of closed network connection" error.
func isClosedConnError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Err.Error() == "use of closed network connection"
	}
	return false
}

// SetOptions replaces the options offered to sessions that start from now
// on. Sessions already running keep the list they started with.
func (s *Server) SetOptions(opts []selection.Option) error {
	if len(opts) == 0 {
		return ErrNoOptions
	}
	s.optionsMu.Lock()
	s.options = slices.Clone(opts)
	s.optionsMu.Unlock()
	s.logger.Info("options updated", "count", len(opts))
	return nil
}

// Options returns the options new sessions are given.
func (s *Server) Options() []selection.Option {
	s.optionsMu.RLock()
	defer s.optionsMu.RUnlock()
	return slices.Clone(s.options)
}
