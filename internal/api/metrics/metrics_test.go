package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ffi-hr/portal/internal/core/crud"
)

func TestStatusClass(t *testing.T) {
	cases := map[int]string{0: "error", 200: "2xx", 204: "2xx", 401: "4xx", 422: "4xx", 503: "5xx"}
	for status, want := range cases {
		if got := StatusClass(status); got != want {
			t.Fatalf("StatusClass(%d) = %s, want %s", status, got, want)
		}
	}
}

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("PATCH", "4xx"))
	ObserveUpstream("PATCH", 422, 15*time.Millisecond)
	if got := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("PATCH", "4xx")); got != before+1 {
		t.Fatalf("expected counter to grow by one, got %v -> %v", before, got)
	}
}

func TestCrudHooks(t *testing.T) {
	h := CrudHooks()
	before := testutil.ToFloat64(PageLoadsTotal.WithLabelValues("sponsors", "forbidden"))
	h.Loaded("sponsors", crud.StateForbidden)
	h.StaleDiscarded("sponsors")
	if got := testutil.ToFloat64(PageLoadsTotal.WithLabelValues("sponsors", "forbidden")); got != before+1 {
		t.Fatalf("page load not counted")
	}
	if testutil.ToFloat64(StaleLoadsDiscardedTotal.WithLabelValues("sponsors")) < 1 {
		t.Fatalf("stale load not counted")
	}
}

func TestObserveQueueDepth(t *testing.T) {
	ObserveQueueDepth(3, 7)
	if got := testutil.ToFloat64(SchedulerQueueDepth.WithLabelValues("3")); got != 7 {
		t.Fatalf("unexpected depth: %v", got)
	}
}
