package webui

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// sessionStore tracks logged-in sessions in memory. Sessions exist only for
// the lifetime of the process; a restart logs everyone out, which is fine
// for a single-admin roster viewer.
type sessionStore struct {
	mu  sync.Mutex
	ttl time.Duration
	set map[string]time.Time // token → expiry

	// now is injectable for tests.
	now func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &sessionStore{
		ttl: ttl,
		set: map[string]time.Time{},
		now: time.Now,
	}
}

// Create mints a new session token.
func (s *sessionStore) Create() string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set[token] = s.now().Add(s.ttl)
	return token
}

// Valid reports whether token names a live session. Expired tokens are
// dropped as they are seen.
func (s *sessionStore) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.set[token]
	if !ok {
		return false
	}
	if s.now().After(exp) {
		delete(s.set, token)
		return false
	}
	return true
}

// Delete removes a session, if present.
func (s *sessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.set, token)
}
