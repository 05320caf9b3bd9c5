// Package memstore holds in-memory implementations of the core stores.
package memstore

import (
	"context"
	"sync"

	"github.com/ffi-hr/portal/internal/core/domain"
)

// SessionStore keeps the token and user record of one session in memory.
// The user is kept in its encoded form so it behaves like the durable stores.
type SessionStore struct {
	mu    sync.RWMutex
	token string
	user  []byte
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Token(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *SessionStore) SetUser(_ context.Context, user domain.SessionUser) error {
	b, err := domain.EncodeStoredUser(user)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.user = b
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) User(_ context.Context) (*domain.SessionUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.DecodeStoredUser(s.user), nil
}

// SetRawUser writes an arbitrary user record, bypassing encoding.
func (s *SessionStore) SetRawUser(b []byte) {
	s.mu.Lock()
	s.user = append([]byte(nil), b...)
	s.mu.Unlock()
}

func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	return nil
}

// Sessions hands out one SessionStore per portal session id. Stores survive
// for the life of the process.
type Sessions struct {
	mu     sync.Mutex
	stores map[string]*SessionStore
}

func NewSessions() *Sessions {
	return &Sessions{stores: make(map[string]*SessionStore)}
}

// ForSession returns the store for sid, creating it on first use.
func (s *Sessions) ForSession(sid string) *SessionStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stores[sid]
	if !ok {
		st = NewSessionStore()
		s.stores[sid] = st
	}
	return st
}
