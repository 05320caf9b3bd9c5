package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
)

// AttendanceAPI implements ports.AttendanceAPI.
type AttendanceAPI struct{ c *Client }

func (c *Client) Attendance() *AttendanceAPI { return &AttendanceAPI{c: c} }

func attendanceQuery(f domain.AttendanceFilters) url.Values {
	return newQuery().
		str("date_from", f.DateFrom).
		str("date_to", f.DateTo).
		str("status", f.Status).
		str("employee_id", f.EmployeeID).
		num("page", f.Page).
		num("page_size", f.PageSize).
		values()
}

func (a *AttendanceAPI) Mine(ctx context.Context, f domain.AttendanceFilters) (envelope.Response[envelope.Page[domain.AttendanceRecord]], error) {
	return do[envelope.Page[domain.AttendanceRecord]](ctx, a.c, http.MethodGet, "/api/attendance/me/", attendanceQuery(f), nil)
}

func (a *AttendanceAPI) CheckIn(ctx context.Context) (envelope.Response[domain.AttendanceRecord], error) {
	return do[domain.AttendanceRecord](ctx, a.c, http.MethodPost, "/api/attendance/me/check-in/", nil, nil)
}

func (a *AttendanceAPI) CheckOut(ctx context.Context) (envelope.Response[domain.AttendanceRecord], error) {
	return do[domain.AttendanceRecord](ctx, a.c, http.MethodPost, "/api/attendance/me/check-out/", nil, nil)
}

func (a *AttendanceAPI) List(ctx context.Context, f domain.AttendanceFilters) (envelope.Response[envelope.Page[domain.AttendanceRecord]], error) {
	return do[envelope.Page[domain.AttendanceRecord]](ctx, a.c, http.MethodGet, "/api/attendance/", attendanceQuery(f), nil)
}

func (a *AttendanceAPI) Override(ctx context.Context, id string, in domain.AttendanceOverride) (envelope.Response[domain.AttendanceRecord], error) {
	return do[domain.AttendanceRecord](ctx, a.c, http.MethodPatch, "/api/attendance/"+url.PathEscape(id)+"/", nil, in)
}
