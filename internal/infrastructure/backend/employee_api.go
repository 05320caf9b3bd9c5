package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
)

// EmployeeAPI implements ports.EmployeeAPI.
type EmployeeAPI struct{ c *Client }

func (c *Client) Employees() *EmployeeAPI { return &EmployeeAPI{c: c} }

func (e *EmployeeAPI) List(ctx context.Context, s domain.EmployeeListState) (envelope.Response[envelope.Page[domain.Employee]], error) {
	q := newQuery().
		num("page", s.Page).
		num("page_size", s.PageSize).
		str("search", s.Search).
		str("department", s.Filters.Department).
		str("position", s.Filters.Position).
		str("task_group", s.Filters.TaskGroup).
		str("sponsor", s.Filters.Sponsor).
		str("status", s.Filters.Status)
	return do[envelope.Page[domain.Employee]](ctx, e.c, http.MethodGet, "/employees", q.values(), nil)
}

func (e *EmployeeAPI) Get(ctx context.Context, id string) (envelope.Response[domain.Employee], error) {
	return do[domain.Employee](ctx, e.c, http.MethodGet, "/employees/"+url.PathEscape(id), nil, nil)
}

func (e *EmployeeAPI) Create(ctx context.Context, in domain.EmployeeInput) (envelope.Response[domain.Employee], error) {
	return do[domain.Employee](ctx, e.c, http.MethodPost, "/employees", nil, in)
}

func (e *EmployeeAPI) Update(ctx context.Context, id string, in domain.EmployeeInput) (envelope.Response[domain.Employee], error) {
	return do[domain.Employee](ctx, e.c, http.MethodPut, "/employees/"+url.PathEscape(id), nil, in)
}
