package backend

import (
	"context"
	"net/http"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
)

// LeaveAPI implements ports.LeaveAPI.
type LeaveAPI struct{ c *Client }

func (c *Client) Leaves() *LeaveAPI { return &LeaveAPI{c: c} }

func (l *LeaveAPI) MyBalances(ctx context.Context, year int) (envelope.Response[[]domain.LeaveBalance], error) {
	q := newQuery().num("year", year)
	return do[[]domain.LeaveBalance](ctx, l.c, http.MethodGet, "/api/leaves/employee/leave-balance/", q.values(), nil)
}

func (l *LeaveAPI) EmployeeBalances(ctx context.Context, employeeID string, year int) (envelope.Response[[]domain.LeaveBalance], error) {
	q := newQuery().str("employee_id", employeeID).num("year", year)
	return do[[]domain.LeaveBalance](ctx, l.c, http.MethodGet, "/api/leaves/leave-balances/", q.values(), nil)
}

func (l *LeaveAPI) CreateRequest(ctx context.Context, in domain.LeaveRequestInput) (envelope.Response[domain.LeaveRequest], error) {
	return do[domain.LeaveRequest](ctx, l.c, http.MethodPost, "/api/leaves/leave-requests/", nil, in)
}
