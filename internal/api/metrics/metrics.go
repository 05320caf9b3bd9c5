// Package metrics defines and registers all custom Prometheus metrics of
// the HR portal. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics register with the default Prometheus registry on package load;
// the HTTP middleware metrics come from echoprometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ffi-hr/portal/internal/core/crud"
)

const namespace = "ffi_portal"

// ── Upstream metrics ──────────────────────────────────────────────────────────

// UpstreamRequestsTotal counts backend exchanges.
// Labels:
//   - method: HTTP method
//   - status_class: "2xx", "4xx", "5xx", or "error" when no response arrived
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests sent to the HR backend.",
	},
	[]string{"method", "status_class"},
)

// UpstreamRequestDuration measures backend round trips.
// Label:
//   - method: HTTP method
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of requests to the HR backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// SessionExpirationsTotal counts sessions ended by a backend 401.
var SessionExpirationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_expirations_total",
		Help:      "Total number of portal sessions cleared because the backend rejected the token.",
	},
)

// ── Page metrics ──────────────────────────────────────────────────────────────

// PageLoadsTotal counts settled list loads.
// Labels:
//   - page: the CRUD page (e.g. "departments")
//   - state: the resulting page state (ok, empty, error, forbidden)
var PageLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_loads_total",
		Help:      "Total number of CRUD list loads, by page and resulting state.",
	},
	[]string{"page", "state"},
)

// StaleLoadsDiscardedTotal counts list responses dropped because a newer
// load had been issued.
// Label:
//   - page: the CRUD page
var StaleLoadsDiscardedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_loads_discarded_total",
		Help:      "Total number of list responses discarded as stale.",
	},
	[]string{"page"},
)

// SchedulerQueueDepth tracks the jobs waiting in each dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var SchedulerQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_queue_depth",
		Help:      "Current number of reload jobs pending in each dispatcher worker.",
	},
	[]string{"worker_id"},
)

// ── Adapters ──────────────────────────────────────────────────────────────────

// ObserveUpstream has the shape of backend.Observer.
func ObserveUpstream(method string, status int, elapsed time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(method, StatusClass(status)).Inc()
	UpstreamRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// SessionExpired counts one expiry.
func SessionExpired() { SessionExpirationsTotal.Inc() }

// CrudHooks feeds the page metrics.
func CrudHooks() crud.Hooks {
	return crud.Hooks{
		Loaded: func(page string, s crud.State) {
			PageLoadsTotal.WithLabelValues(page, string(s)).Inc()
		},
		StaleDiscarded: func(page string) {
			StaleLoadsDiscardedTotal.WithLabelValues(page).Inc()
		},
	}
}

// ObserveQueueDepth has the shape of queue.DepthObserver.
func ObserveQueueDepth(workerID, depth int) {
	SchedulerQueueDepth.WithLabelValues(strconv.Itoa(workerID)).Set(float64(depth))
}

// StatusClass buckets an HTTP status, 0 meaning no response.
func StatusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
