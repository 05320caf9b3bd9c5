package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/infrastructure/memstore"
)

var hrUser = domain.SessionUser{ID: "2", Email: "hr@ffi.test", Role: domain.RoleHRManager}

func newMachine(store *memstore.SessionStore) *Machine {
	return NewMachine(store, zerolog.Nop())
}

func TestMachine_StartsUnknown(t *testing.T) {
	m := newMachine(memstore.NewSessionStore())
	assert.Equal(t, StatusUnknown, m.Snapshot().Status)
}

func TestHydrate_NoTokenIsUnauthenticatedEvenWithCachedUser(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewSessionStore()
	require.NoError(t, store.SetUser(ctx, hrUser))

	m := newMachine(store)
	require.NoError(t, m.Hydrate(ctx))
	st := m.Snapshot()
	assert.Equal(t, StatusUnauthenticated, st.Status)
	assert.Nil(t, st.User)

	select {
	case <-m.Hydrated():
	default:
		t.Fatal("Hydrated channel should be closed")
	}
}

func TestHydrate_TokenWithoutUserIsPartialSession(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewSessionStore()
	require.NoError(t, store.SetToken(ctx, "tok"))

	m := newMachine(store)
	require.NoError(t, m.Hydrate(ctx))
	st := m.Snapshot()
	assert.True(t, st.IsAuthenticated())
	assert.Nil(t, st.User)
}

func TestLogin_ThenHydrateInFreshMachine(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewSessionStore()

	first := newMachine(store)
	require.NoError(t, first.Login(ctx, hrUser, "tok"))

	fresh := newMachine(store)
	require.NoError(t, fresh.Hydrate(ctx))
	assert.Equal(t, first.Snapshot(), fresh.Snapshot())
	assert.Equal(t, hrUser, *fresh.Snapshot().User)
}

func TestLogin_WithoutAnyToken(t *testing.T) {
	m := newMachine(memstore.NewSessionStore())
	assert.ErrorIs(t, m.Login(context.Background(), hrUser, ""), ErrMissingToken)
	assert.Equal(t, StatusUnknown, m.Snapshot().Status)
}

func TestLogout_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewSessionStore()
	m := newMachine(store)
	require.NoError(t, m.Login(ctx, hrUser, "tok"))

	require.NoError(t, m.Logout(ctx))
	assert.Equal(t, StatusUnauthenticated, m.Snapshot().Status)
	require.NoError(t, m.Logout(ctx))
	assert.Equal(t, StatusUnauthenticated, m.Snapshot().Status)

	tok, _ := store.Token(ctx)
	assert.Empty(t, tok)
}

type countingStore struct {
	*memstore.SessionStore
	clears atomic.Int32
}

func (c *countingStore) Clear(ctx context.Context) error {
	c.clears.Add(1)
	return c.SessionStore.Clear(ctx)
}

func TestExpireSession_ConcurrentRejectionsClearOnce(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{SessionStore: memstore.NewSessionStore()}
	m := NewMachine(store, zerolog.Nop())
	require.NoError(t, m.Login(ctx, hrUser, "tok"))

	var wg sync.WaitGroup
	var performed atomic.Int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			did, err := m.ExpireSession(ctx, "tok")
			assert.NoError(t, err)
			if did {
				performed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), performed.Load())
	assert.Equal(t, int32(1), store.clears.Load())
	assert.Equal(t, StatusUnauthenticated, m.Snapshot().Status)
}

func TestExpireSession_StaleTokenDoesNotEndNewSession(t *testing.T) {
	ctx := context.Background()
	m := newMachine(memstore.NewSessionStore())
	require.NoError(t, m.Login(ctx, hrUser, "new"))

	did, err := m.ExpireSession(ctx, "old")
	require.NoError(t, err)
	assert.False(t, did)
	assert.True(t, m.Snapshot().IsAuthenticated())

	did, _ = m.ExpireSession(ctx, "")
	assert.False(t, did)
}

type failingStore struct{ memstore.SessionStore }

func (f *failingStore) Token(context.Context) (string, error) { return "", errors.New("down") }

func TestHydrate_StoreErrorFailsClosed(t *testing.T) {
	m := NewMachine(&failingStore{}, zerolog.Nop())
	assert.Error(t, m.Hydrate(context.Background()))
	assert.Equal(t, StatusUnauthenticated, m.Snapshot().Status)
}
