package handler

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
)

func auditBackend(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/audit-logs":
			envelopeJSON(w, http.StatusOK, `{"status":"success","data":{"items":[{"id":1,"action":"login","entity":"user","entity_id":"4","created_at":"2026-01-02T03:04:05Z"}],"total":1}}`)
		case "/audit-logs/export":
			w.Header().Set("Content-Type", "text/csv")
			_, _ = io.WriteString(w, "id,action\n1,login\n")
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}
}

func TestAdminHandler_ExportCSV(t *testing.T) {
	p := newTestPortal(t, auditBackend(t), nil)
	c, rec := newContext(http.MethodGet, "/admin/audit-logs/export?format=csv&action=login", "")
	if err := NewAdminHandler(fixed(p), testLogger()).ExportAuditLogs(c); err != nil {
		t.Fatalf("export: %v", err)
	}
	if rec.Code != http.StatusOK || rec.Body.String() != "id,action\n1,login\n" {
		t.Fatalf("unexpected export: %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(echo.HeaderContentDisposition) != `attachment; filename="audit-logs.csv"` {
		t.Fatalf("missing attachment header")
	}
}

func TestAdminHandler_ExportXLSX(t *testing.T) {
	p := newTestPortal(t, auditBackend(t), nil)
	c, rec := newContext(http.MethodGet, "/admin/audit-logs/export?format=xlsx", "")
	if err := NewAdminHandler(fixed(p), testLogger()).ExportAuditLogs(c); err != nil {
		t.Fatalf("export: %v", err)
	}
	if rec.Header().Get(echo.HeaderContentType) != xlsxContentType {
		t.Fatalf("unexpected content type %q", rec.Header().Get(echo.HeaderContentType))
	}
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("not a workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Audit logs")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 || rows[1][3] != "login" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestAdminHandler_ExportRejectsUnknownFormat(t *testing.T) {
	p := newTestPortal(t, auditBackend(t), nil)
	c, _ := newContext(http.MethodGet, "/admin/audit-logs/export?format=pdf", "")
	err := NewAdminHandler(fixed(p), testLogger()).ExportAuditLogs(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected a 400, got %v", err)
	}
}

func TestAdminHandler_UsersRejectsBadFilter(t *testing.T) {
	p := newTestPortal(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("backend must not be called")
	}, nil)
	c, _ := newContext(http.MethodGet, "/admin/users?role=Owner", "")
	err := NewAdminHandler(fixed(p), testLogger()).Users(c)
	ve, ok := err.(*ValidationError)
	if !ok || len(ve.Errors.Field("role")) != 1 {
		t.Fatalf("expected a role validation error, got %v", err)
	}
}

func TestAdminHandler_SetUserStatusNotifies(t *testing.T) {
	p := newTestPortal(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/users/4/status" {
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
		envelopeJSON(w, http.StatusOK, `{"status":"success","data":{"id":4,"is_active":false}}`)
	}, nil)
	c, rec := newContext(http.MethodPatch, "/admin/users/4/status", `{"is_active":false}`)
	c.SetParamNames("id")
	c.SetParamValues("4")
	if err := NewAdminHandler(fixed(p), testLogger()).SetUserStatus(c); err != nil {
		t.Fatalf("status: %v", err)
	}
	v := decodeView(t, rec)
	if len(v.Notifications) != 1 || v.Notifications[0].Message != "User deactivated" {
		t.Fatalf("unexpected notifications: %+v", v.Notifications)
	}
}
