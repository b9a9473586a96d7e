// Package session holds the process-wide bearer token for the remote API.
// It replaces the original client's ad hoc reads of a shared storage key
// with an explicit object handed to the HTTP adapter, so the adapter stays
// testable in isolation.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Store is a thread-safe holder for the session token. There is exactly one
// per process; every authenticated request reads it at call time, so calls
// made after a login pick up the fresh token immediately.
type Store struct {
	mu    sync.RWMutex
	token string
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the stored token.
func (s *Store) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the current token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Clear removes the stored token. Called on logout and on any 401.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

// Authenticated reports whether a token is present. It says nothing about
// remote validity; only the server can decide that.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// Claims is the subset of token claims the UI cares about.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Inspect parses the stored token WITHOUT verifying its signature, purely
// for display ("logged in as", session-expiry hints). Validation is the
// server's job. Returns false when no token is stored or it is not a JWT.
func (s *Store) Inspect() (Claims, bool) {
	tok := s.Token()
	if tok == "" {
		return Claims{}, false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{})
	if err != nil {
		return Claims{}, false
	}

	var c Claims
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		c.Subject = sub
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, true
}
