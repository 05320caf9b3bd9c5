package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/ffi-hr/portal/internal/core/crud"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/ports"
)

// MaxExportRows caps the portal-built audit workbook.
const MaxExportRows = 5000

// AdminService backs the system administration screens and both
// dashboards.
type AdminService struct {
	api      ports.AdminAPI
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAdminService(api ports.AdminAPI, v *validator.Validate, log zerolog.Logger) *AdminService {
	return &AdminService{api: api, validate: v, log: log.With().Str("component", "admin_service").Logger()}
}

func (s *AdminService) Summary(ctx context.Context) (crud.PageView[domain.AdminSummary], error) {
	return crud.Fetch(ctx, s.api.Summary, nil)
}

func (s *AdminService) HRSummary(ctx context.Context) (crud.PageView[domain.HRSummary], error) {
	return crud.Fetch(ctx, s.api.HRSummary, nil)
}

func (s *AdminService) Users(ctx context.Context, f domain.UserFilters) (crud.PageView[envelope.Page[domain.UserAccount]], error) {
	return crud.Fetch(ctx, func(ctx context.Context) (envelope.Response[envelope.Page[domain.UserAccount]], error) {
		return s.api.ListUsers(ctx, f)
	}, crud.EmptyPage[domain.UserAccount])
}

func (s *AdminService) CreateUser(ctx context.Context, in domain.CreateUserInput) (crud.Result[domain.UserAccount], error) {
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	return crud.Submit(ctx, s.validate, in, func(ctx context.Context) (envelope.Response[domain.UserAccount], error) {
		return s.api.CreateUser(ctx, in)
	}, "Failed to create user")
}

func (s *AdminService) SetUserStatus(ctx context.Context, id string, active bool) (crud.Result[domain.UserAccount], error) {
	return crud.Submit(ctx, nil, nil, func(ctx context.Context) (envelope.Response[domain.UserAccount], error) {
		return s.api.SetUserStatus(ctx, id, active)
	}, "Failed to update user status")
}

func (s *AdminService) SetUserRole(ctx context.Context, id string, role domain.Role) (crud.Result[domain.UserAccount], error) {
	if !role.Valid() {
		return crud.Result[domain.UserAccount]{Outcome: crud.OutcomeInvalid, Message: "Unknown role"}, nil
	}
	return crud.Submit(ctx, nil, nil, func(ctx context.Context) (envelope.Response[domain.UserAccount], error) {
		return s.api.SetUserRole(ctx, id, role)
	}, "Failed to update user role")
}

func (s *AdminService) ResetPassword(ctx context.Context, id string, mode domain.ResetMode) (crud.Result[domain.ResetPasswordResult], error) {
	if mode != domain.ResetTemporaryPassword && mode != domain.ResetLink {
		return crud.Result[domain.ResetPasswordResult]{Outcome: crud.OutcomeInvalid, Message: "Unknown reset mode"}, nil
	}
	return crud.Submit(ctx, nil, nil, func(ctx context.Context) (envelope.Response[domain.ResetPasswordResult], error) {
		return s.api.ResetPassword(ctx, id, mode)
	}, "Failed to reset password")
}

func (s *AdminService) Invites(ctx context.Context, p ports.ListParams) (crud.PageView[envelope.Page[domain.Invite]], error) {
	return crud.Fetch(ctx, func(ctx context.Context) (envelope.Response[envelope.Page[domain.Invite]], error) {
		return s.api.ListInvites(ctx, p)
	}, crud.EmptyPage[domain.Invite])
}

func (s *AdminService) CreateInvite(ctx context.Context, in domain.CreateInviteInput) (crud.Result[domain.Invite], error) {
	in.Email = strings.TrimSpace(in.Email)
	return crud.Submit(ctx, s.validate, in, func(ctx context.Context) (envelope.Response[domain.Invite], error) {
		return s.api.CreateInvite(ctx, in)
	}, "Failed to create invite")
}

func (s *AdminService) ResendInvite(ctx context.Context, id string) (crud.Result[domain.Invite], error) {
	return crud.Submit(ctx, nil, nil, func(ctx context.Context) (envelope.Response[domain.Invite], error) {
		return s.api.ResendInvite(ctx, id)
	}, "Failed to resend invite")
}

func (s *AdminService) RevokeInvite(ctx context.Context, id string) (crud.Result[struct{}], error) {
	return crud.Submit(ctx, nil, nil, func(ctx context.Context) (envelope.Response[struct{}], error) {
		return s.api.RevokeInvite(ctx, id)
	}, "Failed to revoke invite")
}

func (s *AdminService) AuditLogs(ctx context.Context, f domain.AuditFilters) (crud.PageView[envelope.Page[domain.AuditLog]], error) {
	return crud.Fetch(ctx, func(ctx context.Context) (envelope.Response[envelope.Page[domain.AuditLog]], error) {
		return s.api.ListAuditLogs(ctx, f)
	}, crud.EmptyPage[domain.AuditLog])
}

// ExportAuditCSV proxies the backend's CSV export. The caller closes the
// reader.
func (s *AdminService) ExportAuditCSV(ctx context.Context, f domain.AuditFilters) (io.ReadCloser, string, error) {
	return s.api.ExportAuditLogs(ctx, f)
}

var auditColumns = []string{"ID", "Time", "Actor", "Action", "Entity", "Entity ID", "IP address"}

// ExportAuditXLSX builds a workbook from the filtered list, one sheet with
// at most MaxExportRows rows.
func (s *AdminService) ExportAuditXLSX(ctx context.Context, f domain.AuditFilters, w io.Writer) (int, error) {
	f.Page, f.PageSize = 1, MaxExportRows
	resp, err := s.api.ListAuditLogs(ctx, f)
	if err != nil {
		return 0, err
	}
	if !resp.OK() {
		return 0, fmt.Errorf("export audit logs: %s", resp.Message)
	}
	rows := resp.Data.Items
	if len(rows) > MaxExportRows {
		rows = rows[:MaxExportRows]
	}

	x := excelize.NewFile()
	defer func() {
		if cerr := x.Close(); cerr != nil {
			s.log.Warn().Err(cerr).Msg("closing audit workbook")
		}
	}()
	const sheet = "Audit logs"
	if err := x.SetSheetName(x.GetSheetName(0), sheet); err != nil {
		return 0, fmt.Errorf("export audit logs: %w", err)
	}
	if err := x.SetSheetRow(sheet, "A1", &auditColumns); err != nil {
		return 0, fmt.Errorf("export audit logs: %w", err)
	}
	for i, l := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, fmt.Errorf("export audit logs: %w", err)
		}
		row := []any{l.ID.String(), l.CreatedAt, deref(l.ActorEmail), l.Action, l.Entity, l.EntityID, deref(l.IPAddress)}
		if err := x.SetSheetRow(sheet, cell, &row); err != nil {
			return 0, fmt.Errorf("export audit logs: %w", err)
		}
	}
	if err := x.Write(w); err != nil {
		return 0, fmt.Errorf("export audit logs: %w", err)
	}
	return len(rows), nil
}

func (s *AdminService) Settings(ctx context.Context) (crud.PageView[domain.Settings], error) {
	return crud.Fetch(ctx, s.api.Settings, nil)
}

func (s *AdminService) UpdateSettings(ctx context.Context, in domain.Settings) (crud.Result[domain.Settings], error) {
	return crud.Submit(ctx, s.validate, in, func(ctx context.Context) (envelope.Response[domain.Settings], error) {
		return s.api.UpdateSettings(ctx, in)
	}, "Failed to save settings")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
