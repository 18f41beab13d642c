// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/charmbracelet/ssh"
)

// GenerateToken issues a new access token.
func (s *Server) GenerateToken() (*Token, error) {
	tokenBytes := make([]byte, 24)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := s.now()
	token := &Token{
		Value:     TokenValue(hex.EncodeToString(tokenBytes)),
		CreatedAt: now,
	}
	if s.cfg.TokenTTL > 0 {
		token.ExpiresAt = now.Add(s.cfg.TokenTTL)
	}

	s.tokenMu.Lock()
	s.tokens[token.Value] = token
	s.tokenMu.Unlock()

	s.logger.Debug("generated token", "expires", token.ExpiresAt)
	return token, nil
}

// ValidateToken checks if a token is valid. Expired tokens are revoked.
func (s *Server) ValidateToken(value TokenValue) (*Token, bool) {
	if value.Validate() != nil {
		return nil, false
	}

	s.tokenMu.RLock()
	token, exists := s.tokens[value]
	s.tokenMu.RUnlock()
	if !exists {
		return nil, false
	}

	if token.Expired(s.now()) {
		s.RevokeToken(value)
		return nil, false
	}
	return token, true
}

// RevokeToken invalidates a token.
func (s *Server) RevokeToken(value TokenValue) {
	s.tokenMu.Lock()
	delete(s.tokens, value)
	s.tokenMu.Unlock()
}

func (s *Server) pruneTokens() {
	now := s.now()
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()
	for value, token := range s.tokens {
		if token.Expired(now) {
			delete(s.tokens, value)
		}
	}
}

// cleanupExpiredTokens periodically removes expired tokens.
func (s *Server) cleanupExpiredTokens(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.pruneTokens()
		}
	}
}

// passwordHandler accepts a password equal to a valid token.
func (s *Server) passwordHandler(ctx ssh.Context, password string) bool {
	if _, ok := s.ValidateToken(TokenValue(password)); !ok {
		s.logger.Warn("invalid token authentication attempt", "user", ctx.User(), "remote-addr", ctx.RemoteAddr())
		return false
	}
	return true
}
