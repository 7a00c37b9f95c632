package auth

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// Session ties an opaque bearer token to a user identity.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Store keeps sessions in memory. Tokens are random and carry no claims;
// everything about the user is looked up per request.
type Store struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]Session
}

// NewStore creates a session store with the given lifetime per session.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]Session),
	}
}

// Issue creates a session for the user and returns it.
func (s *Store) Issue(userID string) Session {
	session := Session{
		Token:     newToken(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

// Get returns the live session for a token. Expired sessions are dropped.
func (s *Store) Get(token string) (Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return Session{}, false
	}
	if time.Now().After(session.ExpiresAt) {
		s.Revoke(token)
		return Session{}, false
	}
	return session, true
}

// Revoke removes a session.
func (s *Store) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

func newToken() string {
	var b [32]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
