// SPDX-License-Identifier: MPL-2.0

package rawterm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/selectshell/selectshell/internal/selection"
)

const readBufferSize = 64

var (
	// ErrNotTerminal is returned by Enable when the input is not a terminal.
	ErrNotTerminal = errors.New("input is not a terminal")
	// ErrInputClosed is returned by Run when the input reaches EOF while a
	// handler is still subscribed.
	ErrInputClosed = errors.New("input closed")
)

type (
	// Source is a selection.InputSource reading keys from a terminal file.
	Source struct {
		in      *os.File
		decoder Decoder
		logger  *log.Logger

		mu      sync.Mutex
		handler selection.KeyHandler
		saved   *term.State
	}

	// SourceOption configures a Source.
	SourceOption func(*Source)
)

var _ selection.InputSource = (*Source)(nil)

// WithLogger sets the logger for decoded key traces.
func WithLogger(l *log.Logger) SourceOption {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSource returns a source reading from in.
func NewSource(in *os.File, opts ...SourceOption) *Source {
	s := &Source{in: in, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enable puts the terminal into raw mode. Call Restore when done.
func (s *Source) Enable() error {
	fd := int(s.in.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved != nil {
		return nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	s.saved = state
	return nil
}

// Restore returns the terminal to the mode it had before Enable. It is a
// no-op when raw mode is not enabled.
func (s *Source) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		return nil
	}
	state := s.saved
	s.saved = nil
	if err := term.Restore(int(s.in.Fd()), state); err != nil {
		return fmt.Errorf("restore terminal: %w", err)
	}
	return nil
}

// Subscribe implements selection.InputSource.
func (s *Source) Subscribe(h selection.KeyHandler) {
	s.mu.Lock()
	s.handler = h
	s.mu.Unlock()
}

// Unsubscribe implements selection.InputSource.
func (s *Source) Unsubscribe() {
	s.mu.Lock()
	s.handler = nil
	s.mu.Unlock()
}

func (s *Source) current() selection.KeyHandler {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler
}

// Run reads and dispatches keys until the handler unsubscribes, the context
// is done, or the input ends. Keys are dispatched one at a time on the
// calling goroutine. A handler error stops Run and is returned.
func (s *Source) Run(ctx context.Context) error {
	if s.current() == nil {
		return nil
	}

	stop := context.AfterFunc(ctx, func() {
		// Unblocks a pending Read on pollable files such as ttys.
		_ = s.in.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, readBufferSize)
	for {
		n, err := s.in.Read(buf)
		if n > 0 {
			for _, k := range s.decoder.Decode(buf[:n]) {
				h := s.current()
				if h == nil {
					return nil
				}
				s.logger.Debug("key", "key", k)
				if herr := h(k); herr != nil {
					return herr
				}
			}
			if s.current() == nil {
				return nil
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return ErrInputClosed
			}
			return fmt.Errorf("read input: %w", err)
		}
	}
}
