// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/charmbracelet/keygen"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
)

const tokenCleanupInterval = 5 * time.Minute

// Start starts the SSH server and blocks until either:
//   - The server is ready to accept connections (returns nil)
//   - The server fails to start (returns error)
//   - The context is cancelled (returns context error)
//   - The startup timeout is exceeded (returns error)
//
// After Start() returns nil, use Err() to monitor for runtime errors.
func (s *Server) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		s.transitionToFailed(fmt.Errorf("context cancelled before start: %w", ctx.Err()))
		return s.LastError()
	default:
	}

	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("cannot start server in state %s", s.State())
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())

	if err := s.cfg.Validate(); err != nil {
		s.transitionToFailed(err)
		return err
	}
	if len(s.Options()) == 0 {
		s.transitionToFailed(ErrNoOptions)
		return ErrNoOptions
	}

	startupCtx, startupCancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer startupCancel()

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", addr)
	if err != nil {
		s.transitionToFailed(fmt.Errorf("failed to listen on %s: %w", addr, err))
		return s.LastError()
	}

	s.srvMu.Lock()
	s.listener = listener
	s.addr = listener.Addr().String()
	s.srvMu.Unlock()

	hostKey, err := s.hostKeyOption()
	if err != nil {
		_ = listener.Close()
		s.transitionToFailed(fmt.Errorf("failed to prepare host key: %w", err))
		return s.LastError()
	}

	// Middlewares run last to first: logging wraps the session, which wraps
	// the terminal check, which wraps the Bubble Tea program.
	srv, err := wish.NewServer(
		wish.WithAddress(s.addr),
		hostKey,
		wish.WithPasswordAuth(s.passwordHandler),
		wish.WithIdleTimeout(s.cfg.IdleTimeout),
		wish.WithMiddleware(
			s.resultMiddleware(),
			bubbletea.Middleware(s.teaHandler),
			activeterm.Middleware(),
			s.sessionMiddleware(),
			logging.StructuredMiddlewareWithLogger(s.logger, log.InfoLevel),
		),
	)
	if err != nil {
		_ = listener.Close()
		s.transitionToFailed(fmt.Errorf("failed to create SSH server: %w", err))
		return s.LastError()
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()

	s.wg.Add(2)
	go s.serve()
	go s.cleanupExpiredTokens(tokenCleanupInterval)

	select {
	case <-s.startedCh:
		s.logger.Info("SSH server started", "address", s.addr)
		return nil

	case err := <-s.errCh:
		s.transitionToFailed(err)
		return err

	case <-startupCtx.Done():
		_ = srv.Close()
		s.transitionToFailed(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
		return s.LastError()
	}
}

// Stop gracefully stops the SSH server.
// It blocks until all connections are closed or the shutdown timeout is reached.
// Safe to call multiple times; subsequent calls are no-ops.
func (s *Server) Stop() error {
	for {
		current := s.State()
		switch current {
		case StateStopped, StateFailed:
			return nil
		case StateCreated:
			if s.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				return nil
			}
		case StateStopping:
			s.wg.Wait()
			return nil
		case StateStarting, StateRunning:
			if s.state.CompareAndSwap(int32(current), int32(StateStopping)) {
				return s.doStop()
			}
		default:
			return fmt.Errorf("unknown server state: %d", current)
		}
	}
}

func (s *Server) hostKeyOption() (ssh.Option, error) {
	if s.cfg.HostKeyPath != "" {
		return wish.WithHostKeyPath(s.cfg.HostKeyPath), nil
	}
	kp, err := keygen.New("", keygen.WithKeyType(keygen.Ed25519))
	if err != nil {
		return nil, err
	}
	return wish.WithHostKeyPEM(kp.RawPrivateKey()), nil
}

// serve runs the SSH server and handles errors.
func (s *Server) serve() {
	defer s.wg.Done()

	if s.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(s.startedCh)
	}

	s.srvMu.Lock()
	srv := s.srv
	listener := s.listener
	s.srvMu.Unlock()

	if srv == nil || listener == nil {
		return
	}

	if err := srv.Serve(listener); err != nil {
		if errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
			return
		}
		select {
		case s.errCh <- fmt.Errorf("serve error: %w", err):
		default:
			s.logger.Error("SSH server error (channel full)", "error", err)
		}
	}
}

// doStop performs the actual shutdown logic.
func (s *Server) doStop() error {
	if s.cancel != nil {
		s.cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error
	s.srvMu.Lock()
	if s.srv != nil {
		shutdownErr = s.srv.Shutdown(shutdownCtx)
		if shutdownErr != nil && !isClosedConnError(shutdownErr) {
			s.logger.Error("shutdown error", "error", shutdownErr)
		} else {
			shutdownErr = nil
		}
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.srvMu.Unlock()

	s.wg.Wait()

	s.state.Store(int32(StateStopped))
	s.logger.Info("SSH server stopped", "sessions", s.served.Load())
	close(s.errCh)

	return shutdownErr
}

// transitionToFailed sets the server state to Failed and stores the error.
func (s *Server) transitionToFailed(err error) {
	s.errMu.Lock()
	s.lastErr = err
	s.errMu.Unlock()
	s.state.Store(int32(StateFailed))
	if s.cancel != nil {
		s.cancel()
	}
	select {
	case s.errCh <- err:
	default:
	}
}
