package portal

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffi-hr/portal/internal/core/auth"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/ports"
	"github.com/ffi-hr/portal/internal/infrastructure/memstore"
	"github.com/ffi-hr/portal/internal/pkg/validate"
)

func newRegistry(t *testing.T, h http.HandlerFunc, sessions *memstore.Sessions) *Registry {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	reg, err := NewRegistry(Deps{
		Sessions:     func(sid string) ports.SessionStore { return sessions.ForSession(sid) },
		FilterStates: memstore.NewEmployeeListStateRepository(),
		BackendURL:   srv.URL,
		Validator:    validate.New(),
		HydrateWait:  time.Second,
		Log:          zerolog.Nop(),
	})
	require.NoError(t, err)
	return reg
}

func TestNewRegistry_Validates(t *testing.T) {
	_, err := NewRegistry(Deps{BackendURL: "http://localhost"})
	assert.Error(t, err)
	_, err = NewRegistry(Deps{Sessions: func(string) ports.SessionStore { return memstore.NewSessionStore() }, BackendURL: "::"})
	assert.Error(t, err)
}

func TestRegistry_GetIsStablePerSession(t *testing.T) {
	reg := newRegistry(t, http.NotFound, memstore.NewSessions())
	ctx := context.Background()

	a, err := reg.Get(ctx, "sid-a")
	require.NoError(t, err)
	again, _ := reg.Get(ctx, "sid-a")
	b, _ := reg.Get(ctx, "sid-b")

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, reg.Len())
	for _, kind := range domain.ReferenceKinds {
		page, ok := a.Reference(kind)
		require.True(t, ok)
		assert.Equal(t, kind, page.Kind())
	}
}

func TestRegistry_HydratesFromStoredSession(t *testing.T) {
	sessions := memstore.NewSessions()
	ctx := context.Background()
	store := sessions.ForSession("sid")
	require.NoError(t, store.SetToken(ctx, "tok"))
	require.NoError(t, store.SetUser(ctx, domain.SessionUser{ID: "1", Email: "hr@ffi.test", Role: domain.RoleHRManager}))

	reg := newRegistry(t, http.NotFound, sessions)
	p, err := reg.Get(ctx, "sid")
	require.NoError(t, err)

	st := p.Machine.Snapshot()
	assert.Equal(t, auth.StatusAuthenticated, st.Status)
	assert.Equal(t, domain.RoleHRManager, p.User().Role)
	assert.True(t, p.TokenStored(ctx))
}

func TestRegistry_UnauthorizedRequestsLogin(t *testing.T) {
	sessions := memstore.NewSessions()
	ctx := context.Background()
	require.NoError(t, sessions.ForSession("sid").SetToken(ctx, "tok"))

	reg := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"status":"error","message":"expired"}`)
	}, sessions)
	p, err := reg.Get(ctx, "sid")
	require.NoError(t, err)

	reqCtx, nav := WithNavigation(ctx)
	_, err = p.Admin.HRSummary(reqCtx)
	require.Error(t, err)
	assert.True(t, nav.LoginRequested())
	assert.False(t, p.Machine.Snapshot().IsAuthenticated())
	assert.False(t, p.TokenStored(ctx))
}

func TestRegistry_Evict(t *testing.T) {
	reg := newRegistry(t, http.NotFound, memstore.NewSessions())
	now := time.Now()
	reg.now = func() time.Time { return now }
	_, _ = reg.Get(context.Background(), "old")

	reg.now = func() time.Time { return now.Add(time.Hour) }
	_, _ = reg.Get(context.Background(), "fresh")

	assert.Equal(t, 1, reg.Evict(30*time.Minute))
	assert.Equal(t, 1, reg.Len())
}

func TestNotifications_DrainAndCap(t *testing.T) {
	var n Notifications
	for i := 0; i < maxPending+3; i++ {
		n.Notify(ports.Notification{Level: ports.NotifyInfo, Message: string(rune('a' + i%26))})
	}
	got := n.Drain()
	assert.Len(t, got, maxPending)
	assert.Equal(t, "d", got[0].Message)
	assert.Empty(t, n.Drain())
}
