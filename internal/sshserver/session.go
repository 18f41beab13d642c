// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/selectshell/selectshell/internal/selection"
	"github.com/selectshell/selectshell/internal/tui"
)

type (
	sessionKey struct{}

	// session is the per-connection state shared by the middlewares.
	session struct {
		id     uuid.UUID
		mu     sync.Mutex
		result *selection.Result
	}
)

func sessionFrom(sess ssh.Session) *session {
	st, _ := sess.Context().Value(sessionKey{}).(*session)
	return st
}

func (st *session) record(r selection.Result) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.result = &r
}

func (st *session) finished() (selection.Result, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.result == nil {
		return selection.Result{}, false
	}
	return *st.result, true
}

// sessionMiddleware assigns the session ID and tracks the active count.
func (s *Server) sessionMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			st := &session{id: uuid.New()}
			sess.Context().SetValue(sessionKey{}, st)

			active := s.sessions.Inc()
			s.logger.Debug("session opened", "session", st.id, "active", active)
			defer func() {
				s.sessions.Dec()
				s.served.Inc()
				s.logger.Debug("session closed", "session", st.id)
			}()

			next(sess)
		}
	}
}

// teaHandler builds one picker per session. The widget is styled for the
// client's terminal.
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	st := sessionFrom(sess)
	if st == nil {
		return nil, nil
	}

	m, err := tui.NewModel(tui.ModelOptions{
		Config:   s.cfg.Picker,
		Options:  s.Options(),
		Styles:   bubbletea.MakeRenderer(sess),
		Logger:   s.logger.With("session", st.id),
		Listener: selection.ListenerFuncs{OnCommit: st.record, OnCancel: st.record},
	})
	if err != nil {
		s.logger.Error("failed to start picker", "session", st.id, "error", err)
		wish.Errorln(sess, "failed to start picker:", err)
		return nil, nil
	}
	return m, nil
}

// resultMiddleware runs after the program has exited. It reports the
// outcome to the client and to Config.OnResult.
func (s *Server) resultMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			defer next(sess)

			st := sessionFrom(sess)
			if st == nil {
				return
			}
			res, ok := st.finished()
			if !ok {
				_ = sess.Exit(1)
				return
			}

			s.logger.Info("session finished",
				"session", st.id,
				"user", sess.User(),
				"outcome", res.Outcome,
				"selected", res.Labels(),
			)
			if s.cfg.OnResult != nil {
				s.cfg.OnResult(SessionResult{
					SessionID:  st.id,
					User:       sess.User(),
					RemoteAddr: sess.RemoteAddr().String(),
					Result:     res,
				})
			}

			if res.Cancelled() {
				_ = sess.Exit(1)
				return
			}
			for _, v := range res.Values() {
				wish.Printf(sess, "%v\r\n", v)
			}
			_ = sess.Exit(0)
		}
	}
}

// Banner is the text shown to operators after Start.
func (s *Server) Banner(token *Token) string {
	return fmt.Sprintf("ssh -p %d selectshell@%s  (password: %s)", s.Port(), s.Host(), token.Value)
}
