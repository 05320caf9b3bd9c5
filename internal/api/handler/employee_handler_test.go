package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestEmployeeHandler_FiltersPersistAndDriveTheQuery(t *testing.T) {
	var queries []string
	p := newTestPortal(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/employees" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		queries = append(queries, r.URL.RawQuery)
		envelopeJSON(w, http.StatusOK, `{"status":"success","data":{"results":[{"id":7,"full_name":"Alia"}],"count":1}}`)
	}, hrUser)
	h := NewEmployeeHandler(fixed(p))

	c, rec := newContext(http.MethodPost, "/hr/employees/filters", `{"search":"ali","filters":{"status":"ACTIVE"}}`)
	if err := h.Filters(c); err != nil {
		t.Fatalf("filters: %v", err)
	}
	var view struct {
		State   string `json:"state"`
		Filters struct {
			Search string `json:"search"`
			Page   int    `json:"page"`
		} `json:"filters"`
	}
	if err := json.Unmarshal(decodeView(t, rec).Data, &view); err != nil {
		t.Fatalf("invalid data: %v", err)
	}
	if view.State != "ok" || view.Filters.Search != "ali" || view.Filters.Page != 1 {
		t.Fatalf("unexpected view: %+v", view)
	}

	c, _ = newContext(http.MethodGet, "/hr/employees", "")
	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(queries) != 2 || queries[0] != queries[1] {
		t.Fatalf("expected the stored filters to be reused, got %v", queries)
	}
	if !strings.Contains(queries[0], "search=ali") || !strings.Contains(queries[0], "status=ACTIVE") {
		t.Fatalf("filters missing from query %q", queries[0])
	}
}

func TestEmployeeHandler_PartialSessionIsForbidden(t *testing.T) {
	p := newTestPortal(t, http.NotFound, nil)
	c, _ := newContext(http.MethodGet, "/hr/employees", "")
	if err := NewEmployeeHandler(fixed(p)).List(c); err == nil {
		t.Fatalf("expected an error without a session user")
	}
}
