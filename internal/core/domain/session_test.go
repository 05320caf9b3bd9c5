package domain

import "testing"

func TestStoredUser_RoundTrip(t *testing.T) {
	in := SessionUser{ID: "7", Email: "hr@example.com", Role: RoleHRManager}
	b, err := EncodeStoredUser(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(b) != `{"v":1,"id":"7","email":"hr@example.com","role":"HRManager"}` {
		t.Fatalf("unexpected record: %s", b)
	}
	out := DecodeStoredUser(b)
	if out == nil || *out != in {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestStoredUser_RejectsUnknownShapes(t *testing.T) {
	for _, raw := range []string{"", "not-json", `{"v":2,"id":"1","email":"a","role":"Employee"}`, `{"id":"1"}`} {
		if u := DecodeStoredUser([]byte(raw)); u != nil {
			t.Fatalf("expected nil for %q, got %+v", raw, u)
		}
	}
}

func TestID_DecodesNumbersAndStrings(t *testing.T) {
	var a, b ID
	if err := a.UnmarshalJSON([]byte(`42`)); err != nil || a != "42" {
		t.Fatalf("numeric id: %q %v", a, err)
	}
	if err := b.UnmarshalJSON([]byte(`"abc"`)); err != nil || b != "abc" {
		t.Fatalf("string id: %q %v", b, err)
	}
	if a.Int() != 42 || b.Int() != 0 {
		t.Fatalf("unexpected Int values")
	}
}

func TestEmployeeListState_Transitions(t *testing.T) {
	s := DefaultEmployeeListState().WithPage(4)
	if s.Page != 4 || s.PageSize != DefaultPageSize {
		t.Fatalf("unexpected state: %+v", s)
	}
	s = s.WithSearch("ali")
	if s.Page != 1 || s.Search != "ali" {
		t.Fatalf("search should reset page: %+v", s)
	}
	s = s.WithPage(3).WithFilters(EmployeeFilters{Department: "HR", Status: "ACTIVE"})
	if s.Page != 1 || s.Filters.Department != "HR" || s.Filters.Status != "ACTIVE" {
		t.Fatalf("filters should merge and reset page: %+v", s)
	}
	s = s.WithFilters(EmployeeFilters{Department: "-"})
	if s.Filters.Department != "" || s.Filters.Status != "ACTIVE" {
		t.Fatalf("dash should clear only that filter: %+v", s)
	}
	s = s.WithPage(2).WithPageSize(50)
	if s.Page != 1 || s.PageSize != 50 {
		t.Fatalf("page size should reset page: %+v", s)
	}
}

func TestSessionUser_HasRole(t *testing.T) {
	var nilUser *SessionUser
	if nilUser.HasRole(RoleEmployee) {
		t.Fatalf("nil user must never hold a role")
	}
	u := &SessionUser{Role: RoleEmployee}
	if !u.HasRole(RoleSystemAdmin, RoleEmployee) || u.HasRole(RoleHRManager) {
		t.Fatalf("unexpected membership result")
	}
}
