// Package auth holds the in-memory authentication state of one session.
//
//	Unknown ──Hydrate──▶ Unauthenticated ◀──Logout/ExpireSession── Authenticated(user|nil)
//	                          │                                          ▲
//	                          └──────────────────Login───────────────────┘
//
// The machine never performs network calls. Callers log in or out against
// the backend and then report the outcome here.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/ports"
)

// Status is the coarse auth state.
type Status int

const (
	StatusUnknown Status = iota
	StatusUnauthenticated
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// State is a snapshot of the machine. User may be nil while Authenticated:
// that is the partial session (token stored, no user record), which passes
// identity checks and fails every role check.
type State struct {
	Status Status
	User   *domain.SessionUser
}

func (s State) IsAuthenticated() bool { return s.Status == StatusAuthenticated }

// ErrMissingToken is returned by Login when neither the caller nor the store
// can supply a token.
var ErrMissingToken = errors.New("auth: login requires a token")

type Machine struct {
	mu       sync.RWMutex
	store    ports.SessionStore
	state    State
	hydrated chan struct{}
	once     sync.Once
	log      zerolog.Logger
}

// NewMachine returns a machine in the Unknown state.
func NewMachine(store ports.SessionStore, log zerolog.Logger) *Machine {
	return &Machine{
		store:    store,
		hydrated: make(chan struct{}),
		log:      log.With().Str("component", "auth").Logger(),
	}
}

// Store exposes the session store the machine writes to.
func (m *Machine) Store() ports.SessionStore { return m.store }

// Snapshot returns the current state. The user is a copy.
func (m *Machine) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := m.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// Hydrated is closed once the first Hydrate call has finished.
func (m *Machine) Hydrated() <-chan struct{} { return m.hydrated }

// Hydrate derives the state from the session store. A missing token always
// yields Unauthenticated, whatever user record is cached. On a store error
// the machine fails closed to Unauthenticated and the error is returned.
func (m *Machine) Hydrate(ctx context.Context) error {
	defer m.once.Do(func() { close(m.hydrated) })

	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.store.Token(ctx)
	if err != nil {
		m.state = State{Status: StatusUnauthenticated}
		return fmt.Errorf("hydrate: read token: %w", err)
	}
	if token == "" {
		m.state = State{Status: StatusUnauthenticated}
		return nil
	}

	user, err := m.store.User(ctx)
	if err != nil {
		m.state = State{Status: StatusUnauthenticated}
		return fmt.Errorf("hydrate: read user: %w", err)
	}
	m.state = State{Status: StatusAuthenticated, User: user}
	if user == nil {
		m.log.Warn().Msg("hydrated a session without a cached user")
	}
	return nil
}

// Login persists token and user, then moves to Authenticated(user). An
// empty token keeps the stored one.
func (m *Machine) Login(ctx context.Context, user domain.SessionUser, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token == "" {
		stored, err := m.store.Token(ctx)
		if err != nil {
			return fmt.Errorf("login: read token: %w", err)
		}
		if stored == "" {
			return ErrMissingToken
		}
	} else if err := m.store.SetToken(ctx, token); err != nil {
		return fmt.Errorf("login: write token: %w", err)
	}
	if err := m.store.SetUser(ctx, user); err != nil {
		return fmt.Errorf("login: write user: %w", err)
	}

	u := user
	m.state = State{Status: StatusAuthenticated, User: &u}
	return nil
}

// Logout clears the store and moves to Unauthenticated. Calling it again is
// harmless.
func (m *Machine) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{Status: StatusUnauthenticated}
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// ExpireSession logs out because a request carrying token was rejected as
// unauthenticated. It only acts while token is still the stored one, so any
// number of concurrent rejections of the same token clear the session once.
// It reports whether this call performed the logout.
func (m *Machine) ExpireSession(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.store.Token(ctx)
	if err != nil {
		return false, fmt.Errorf("expire session: read token: %w", err)
	}
	if current != token {
		return false, nil
	}
	m.state = State{Status: StatusUnauthenticated}
	if err := m.store.Clear(ctx); err != nil {
		return true, fmt.Errorf("expire session: %w", err)
	}
	m.log.Info().Msg("session expired by backend")
	return true, nil
}
