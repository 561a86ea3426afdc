package session

import (
	"context"
	"sync"
	"time"
)

// Store holds the bearer credential used by API clients.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Semantics: Clear must be idempotent; writes are last-write-wins.
type Store interface {
	// Token returns the current credential and whether one is held.
	Token() (string, bool)

	// SetToken replaces the held credential.
	SetToken(token string)

	// Clear removes the held credential.
	Clear()
}

// Sink receives session-invalidation notifications.
//
// The request pipeline calls Unauthorized when a call receives HTTP 401,
// after the credential has been cleared. What happens next (redirect to a
// login route, prompt for re-auth, nothing) is the composition root's
// decision, not the pipeline's.
type Sink interface {
	Unauthorized(ctx context.Context)
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	held  bool
}

// NewMemoryStore creates a MemoryStore, optionally seeded with a token.
func NewMemoryStore(token ...string) *MemoryStore {
	s := &MemoryStore{}
	if len(token) > 0 && token[0] != "" {
		s.token = token[0]
		s.held = true
	}
	return s
}

// Token returns the held credential.
func (s *MemoryStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.held
}

// SetToken replaces the held credential.
func (s *MemoryStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.held = token != ""
}

// Clear removes the held credential.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.held = false
}

// Expired reports whether the held token's exp claim falls within leeway of
// now. A store with no token, or a token without an exp claim, reports false.
func (s *MemoryStore) Expired(leeway time.Duration) bool {
	token, ok := s.Token()
	if !ok {
		return false
	}
	claims, err := ParseClaims(token)
	if err != nil || claims.ExpiresAt.IsZero() {
		return false
	}
	return !claims.ExpiresAt.After(time.Now().Add(leeway))
}

// NopSink is a Sink that does nothing. Use it in server contexts where
// there is no navigation to perform on session invalidation.
type NopSink struct{}

// Unauthorized does nothing.
func (NopSink) Unauthorized(ctx context.Context) {}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context)

// Unauthorized calls f.
func (f SinkFunc) Unauthorized(ctx context.Context) { f(ctx) }
