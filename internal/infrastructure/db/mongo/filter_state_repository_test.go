package mongo

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ffi-hr/portal/internal/core/domain"
)

func TestFilterStateDoc_BSONRoundTrip(t *testing.T) {
	st := domain.DefaultEmployeeListState().WithSearch("ana").WithFilters(domain.EmployeeFilters{Sponsor: "2", Status: "ACTIVE"}).WithPage(3)
	doc := toFilterStateDoc("u1", st, time.Unix(1700000000, 0))

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back filterStateDoc
	if err := bson.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.UserID != "u1" || back.UpdatedAt != 1700000000 {
		t.Fatalf("unexpected document: %+v", back)
	}
	if got := back.state(); got != st {
		t.Fatalf("state mismatch: got %+v want %+v", got, st)
	}

	if v, ok := bson.Raw(raw).Lookup("filters", "sponsor").StringValueOK(); !ok || v != "2" {
		t.Fatalf("sponsor stored under unexpected key")
	}
	if _, err := bson.Raw(raw).LookupErr("filters", "department"); err == nil {
		t.Fatalf("empty filters must be omitted")
	}
}

func TestFilterStateDoc_RepairsZeroPaging(t *testing.T) {
	st := filterStateDoc{UserID: "u1"}.state()
	if st.Page != 1 || st.PageSize != domain.DefaultPageSize {
		t.Fatalf("unexpected paging: %+v", st)
	}
}

func TestConnect_RequiresDatabase(t *testing.T) {
	if _, _, err := Connect(context.Background(), Config{URI: "mongodb://localhost:27017"}); err == nil {
		t.Fatalf("expected error for empty database name")
	}
}
