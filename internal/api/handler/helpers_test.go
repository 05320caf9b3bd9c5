package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/ports"
	"github.com/ffi-hr/portal/internal/infrastructure/memstore"
	"github.com/ffi-hr/portal/internal/pkg/validate"
	"github.com/ffi-hr/portal/internal/portal"
)

var (
	hrUser       = &domain.SessionUser{ID: "2", Email: "hr@ffi.test", Role: domain.RoleHRManager}
	employeeUser = &domain.SessionUser{ID: "3", Email: "e@ffi.test", Role: domain.RoleEmployee}
)

// newTestPortal returns a hydrated portal whose backend is h. A non-nil
// user is signed in with token "tok".
func newTestPortal(t *testing.T, h http.HandlerFunc, user *domain.SessionUser) *portal.Portal {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	sessions := memstore.NewSessions()
	ctx := context.Background()
	if user != nil {
		store := sessions.ForSession("sid")
		if err := store.SetToken(ctx, "tok"); err != nil {
			t.Fatalf("set token: %v", err)
		}
		if err := store.SetUser(ctx, *user); err != nil {
			t.Fatalf("set user: %v", err)
		}
	}
	reg, err := portal.NewRegistry(portal.Deps{
		Sessions:     func(sid string) ports.SessionStore { return sessions.ForSession(sid) },
		FilterStates: memstore.NewEmployeeListStateRepository(),
		BackendURL:   srv.URL,
		Validator:    validate.New(),
		HydrateWait:  time.Second,
		Log:          zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	p, err := reg.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("portal: %v", err)
	}
	return p
}

func fixed(p *portal.Portal) PortalFunc {
	return func(echo.Context) (*portal.Portal, error) { return p, nil }
}

// envelopeJSON writes a backend envelope.
func envelopeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator(validate.New())
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type decodedView struct {
	View          string               `json:"view"`
	Data          json.RawMessage      `json:"data"`
	Notifications []ports.Notification `json:"notifications"`
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) decodedView {
	t.Helper()
	var v decodedView
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return v
}

func testLogger() zerolog.Logger { return zerolog.Nop() }
