package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffi-hr/portal/internal/core/apierror"
	"github.com/ffi-hr/portal/internal/core/auth"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/ports"
	"github.com/ffi-hr/portal/internal/infrastructure/memstore"
)

type fixture struct {
	machine  *auth.Machine
	client   *Client
	navs     atomic.Int32
	expiries atomic.Int32
}

func newFixture(t *testing.T, h http.HandlerFunc) *fixture {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	f := &fixture{machine: auth.NewMachine(memstore.NewSessionStore(), zerolog.Nop())}
	nav := ports.NavigatorFunc(func(context.Context) { f.navs.Add(1) })
	c, err := New(Options{
		BaseURL:   srv.URL,
		Tokens:    f.machine.Store(),
		Expirer:   f.machine,
		Navigator: nav,
		Expired:   func() { f.expiries.Add(1) },
		Log:       zerolog.Nop(),
	})
	require.NoError(t, err)
	f.client = c
	return f
}

func (f *fixture) login(t *testing.T, token string) {
	t.Helper()
	require.NoError(t, f.machine.Login(context.Background(), domain.SessionUser{ID: "1", Email: "admin@ffi.test", Role: domain.RoleSystemAdmin}, token))
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestBearer_AttachesStoredToken(t *testing.T) {
	var got string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"status":"success","data":{"total_employees":3,"active_employees":2}}`)
	})
	f.login(t, "tok-1")

	resp, err := f.client.Admin().HRSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", got)
	assert.Equal(t, 3, resp.Data.TotalEmployees)
}

func TestBearer_NoTokenSendsNoHeader(t *testing.T) {
	var got []string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Values("Authorization")
		_, _ = io.WriteString(w, `{"status":"success","data":{"token":"t","user":{"id":1,"email":"a@b","role":"Employee"}}}`)
	})

	resp, err := f.client.Auth().Login(context.Background(), "a@b", "pw")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, "t", resp.Data.Token)
	assert.Equal(t, domain.ID("1"), resp.Data.User.ID)
}

func TestUnauthorized_ConcurrentRejectionsClearOnce(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"status":"error","message":"Token expired"}`)
	})
	f.login(t, "tok-1")

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.client.Admin().Summary(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.True(t, errors.Is(err, domain.ErrSessionExpired))
		assert.Equal(t, apierror.KindUnauthorized, apierror.Classify(err))
	}
	assert.EqualValues(t, 1, f.expiries.Load())
	assert.EqualValues(t, n, f.navs.Load())

	token, _ := f.machine.Store().Token(context.Background())
	assert.Empty(t, token)
	assert.False(t, f.machine.Snapshot().IsAuthenticated())
}

func TestUnauthorized_StaleTokenKeepsNewSession(t *testing.T) {
	received := make(chan struct{})
	release := make(chan struct{})
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		close(received)
		<-release
		w.WriteHeader(http.StatusUnauthorized)
	})
	f.login(t, "old")

	done := make(chan error, 1)
	go func() {
		_, err := f.client.Admin().Summary(context.Background())
		done <- err
	}()
	<-received
	f.login(t, "new")
	close(release)
	require.Error(t, <-done)

	token, _ := f.machine.Store().Token(context.Background())
	assert.Equal(t, "new", token)
	assert.EqualValues(t, 0, f.expiries.Load())
	assert.EqualValues(t, 1, f.navs.Load())
	assert.True(t, f.machine.Snapshot().IsAuthenticated())
}

func TestForbidden_KeepsSession(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"status":"error","message":"Not allowed"}`)
	})
	f.login(t, "tok-1")

	_, err := f.client.Reference().List(context.Background(), domain.KindDepartment, ports.ListParams{Page: 1, PageSize: 25})
	require.Error(t, err)
	assert.Equal(t, apierror.KindForbidden, apierror.Classify(err))
	assert.Equal(t, "Not allowed", apierror.Message(err, ""))
	assert.EqualValues(t, 0, f.navs.Load())
	assert.True(t, f.machine.Snapshot().IsAuthenticated())
}

func TestReferenceList_QueryAndNormalization(t *testing.T) {
	var path, page, size string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		page, size = r.URL.Query().Get("page"), r.URL.Query().Get("page_size")
		_, _ = io.WriteString(w, `{"status":"success","data":{"items":[{"id":1,"code":"HR","name":"Human Resources"}],"total":7}}`)
	})

	resp, err := f.client.Reference().List(context.Background(), domain.KindTaskGroup, ports.ListParams{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, "/api/hr/task-groups/", path)
	assert.Equal(t, "2", page)
	assert.Equal(t, "10", size)
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "HR", resp.Data.Items[0].Code)
	assert.Equal(t, 7, resp.Data.Total)
}

func TestEmployeeList_ResultsCountShape(t *testing.T) {
	var search, dept string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		search, dept = r.URL.Query().Get("search"), r.URL.Query().Get("department")
		_, _ = io.WriteString(w, `{"status":"success","data":{"results":[{"id":4,"full_name":"Ana"}],"count":41}}`)
	})

	st := domain.DefaultEmployeeListState().WithSearch("ana").WithFilters(domain.EmployeeFilters{Department: "3"})
	resp, err := f.client.Employees().List(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, "ana", search)
	assert.Equal(t, "3", dept)
	assert.Equal(t, 41, resp.Data.Total)
	assert.Equal(t, "Ana", resp.Data.Items[0].FullName)
}

func TestValidationFailure_CarriesDetails(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"status":"error","message":"Validation failed","errors":[{"field":"code","message":"Code already exists"}]}`)
	})

	_, err := f.client.Reference().Create(context.Background(), domain.KindDepartment, domain.ReferenceInput{Code: "HR", Name: "HR"})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.Classify(err))
	msg, details, ok := apierror.Details(err)
	require.True(t, ok)
	assert.Equal(t, "Validation failed", msg)
	require.Len(t, details.Items(), 1)
	assert.Equal(t, "code", details.Items()[0].Field)
}

func TestTransportFailure_IsServerKind(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := New(Options{BaseURL: srv.URL, Log: zerolog.Nop()})
	require.NoError(t, err)
	_, err = c.Admin().Settings(context.Background())
	require.Error(t, err)
	assert.Equal(t, apierror.KindServer, apierror.Classify(err))
	assert.Equal(t, "Unable to reach the server", apierror.Message(err, ""))
}

func TestExportAuditLogs_StreamsBody(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audit-logs/export", r.URL.Path)
		assert.Equal(t, "login", r.URL.Query().Get("action"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, "id,action\n1,login\n")
	})

	body, ctype, err := f.client.Admin().ExportAuditLogs(context.Background(), domain.AuditFilters{Action: "login"})
	require.NoError(t, err)
	defer body.Close()
	b, _ := io.ReadAll(body)
	assert.Equal(t, "text/csv", ctype)
	assert.Equal(t, "id,action\n1,login\n", string(b))
}

func TestInstrument_ObservesEveryExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	var mu sync.Mutex
	var seen []int
	c, err := New(Options{
		BaseURL: srv.URL,
		Observe: func(_ string, status int, _ time.Duration) {
			mu.Lock()
			seen = append(seen, status)
			mu.Unlock()
		},
	})
	require.NoError(t, err)

	resp, err := c.Admin().RevokeInvite(context.Background(), "9")
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, []int{http.StatusNoContent}, seen)
}

func TestUnauthorized_WithoutTokenIsNotAnExpiry(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"status":"error","message":"Invalid credentials"}`)
	})

	_, err := f.client.Auth().Login(context.Background(), "nobody@ffi.test", "bad")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", apierror.Message(err, ""))
	assert.EqualValues(t, 0, f.navs.Load())
	assert.EqualValues(t, 0, f.expiries.Load())
}

func TestLogin_WrongPasswordKeepsSignedInSession(t *testing.T) {
	var got []string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Values("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"status":"error","message":"Invalid credentials"}`)
	})
	f.login(t, "tok-1")

	_, err := f.client.Auth().Login(context.Background(), "admin@ffi.test", "wrong")
	require.Error(t, err)
	assert.Equal(t, apierror.KindUnauthorized, apierror.Classify(err))
	assert.Empty(t, got)
	assert.EqualValues(t, 0, f.navs.Load())
	assert.EqualValues(t, 0, f.expiries.Load())

	token, _ := f.machine.Store().Token(context.Background())
	assert.Equal(t, "tok-1", token)
	assert.True(t, f.machine.Snapshot().IsAuthenticated())
}
