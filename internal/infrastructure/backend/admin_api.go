package backend

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/ports"
)

// AdminAPI implements ports.AdminAPI: summaries, users, invites, audit
// logs and settings.
type AdminAPI struct{ c *Client }

func (c *Client) Admin() *AdminAPI { return &AdminAPI{c: c} }

func (a *AdminAPI) Summary(ctx context.Context) (envelope.Response[domain.AdminSummary], error) {
	return do[domain.AdminSummary](ctx, a.c, http.MethodGet, "/admin/summary", nil, nil)
}

func (a *AdminAPI) HRSummary(ctx context.Context) (envelope.Response[domain.HRSummary], error) {
	return do[domain.HRSummary](ctx, a.c, http.MethodGet, "/hr/summary", nil, nil)
}

func (a *AdminAPI) ListUsers(ctx context.Context, f domain.UserFilters) (envelope.Response[envelope.Page[domain.UserAccount]], error) {
	q := newQuery().str("search", f.Search).str("role", f.Role).str("status", f.Status)
	return do[envelope.Page[domain.UserAccount]](ctx, a.c, http.MethodGet, "/users", q.values(), nil)
}

func (a *AdminAPI) CreateUser(ctx context.Context, in domain.CreateUserInput) (envelope.Response[domain.UserAccount], error) {
	return do[domain.UserAccount](ctx, a.c, http.MethodPost, "/users", nil, in)
}

func (a *AdminAPI) SetUserStatus(ctx context.Context, id string, active bool) (envelope.Response[domain.UserAccount], error) {
	body := map[string]bool{"is_active": active}
	return do[domain.UserAccount](ctx, a.c, http.MethodPatch, "/users/"+url.PathEscape(id)+"/status", nil, body)
}

func (a *AdminAPI) SetUserRole(ctx context.Context, id string, role domain.Role) (envelope.Response[domain.UserAccount], error) {
	body := map[string]domain.Role{"role": role}
	return do[domain.UserAccount](ctx, a.c, http.MethodPut, "/users/"+url.PathEscape(id)+"/role", nil, body)
}

func (a *AdminAPI) ResetPassword(ctx context.Context, id string, mode domain.ResetMode) (envelope.Response[domain.ResetPasswordResult], error) {
	body := map[string]domain.ResetMode{"mode": mode}
	return do[domain.ResetPasswordResult](ctx, a.c, http.MethodPost, "/users/"+url.PathEscape(id)+"/reset-password", nil, body)
}

func (a *AdminAPI) ListInvites(ctx context.Context, p ports.ListParams) (envelope.Response[envelope.Page[domain.Invite]], error) {
	q := newQuery().num("page", p.Page).num("page_size", p.PageSize)
	return do[envelope.Page[domain.Invite]](ctx, a.c, http.MethodGet, "/invites", q.values(), nil)
}

func (a *AdminAPI) CreateInvite(ctx context.Context, in domain.CreateInviteInput) (envelope.Response[domain.Invite], error) {
	return do[domain.Invite](ctx, a.c, http.MethodPost, "/invites", nil, in)
}

func (a *AdminAPI) ResendInvite(ctx context.Context, id string) (envelope.Response[domain.Invite], error) {
	return do[domain.Invite](ctx, a.c, http.MethodPost, "/invites/"+url.PathEscape(id)+"/resend", nil, nil)
}

func (a *AdminAPI) RevokeInvite(ctx context.Context, id string) (envelope.Response[struct{}], error) {
	return do[struct{}](ctx, a.c, http.MethodDelete, "/invites/"+url.PathEscape(id), nil, nil)
}

func auditQuery(f domain.AuditFilters) url.Values {
	return newQuery().
		num("page", f.Page).
		num("page_size", f.PageSize).
		str("action", f.Action).
		str("actor_email", f.ActorEmail).
		str("entity", f.Entity).
		str("entity_id", f.EntityID).
		str("from", f.From).
		str("to", f.To).
		str("search", f.Search).
		values()
}

func (a *AdminAPI) ListAuditLogs(ctx context.Context, f domain.AuditFilters) (envelope.Response[envelope.Page[domain.AuditLog]], error) {
	return do[envelope.Page[domain.AuditLog]](ctx, a.c, http.MethodGet, "/audit-logs", auditQuery(f), nil)
}

// ExportAuditLogs streams the backend's CSV export. The caller closes the
// reader.
func (a *AdminAPI) ExportAuditLogs(ctx context.Context, f domain.AuditFilters) (io.ReadCloser, string, error) {
	return a.c.download(ctx, "/audit-logs/export", auditQuery(f))
}

func (a *AdminAPI) Settings(ctx context.Context) (envelope.Response[domain.Settings], error) {
	return do[domain.Settings](ctx, a.c, http.MethodGet, "/settings", nil, nil)
}

func (a *AdminAPI) UpdateSettings(ctx context.Context, in domain.Settings) (envelope.Response[domain.Settings], error) {
	return do[domain.Settings](ctx, a.c, http.MethodPut, "/settings", nil, in)
}
