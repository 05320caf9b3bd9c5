package ports

import (
	"context"
	"io"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
)

// Every method returns the decoded envelope for 2xx responses and an error
// for everything else (see package apierror).

type LoginResult struct {
	Token string             `json:"token"`
	User  domain.SessionUser `json:"user"`
}

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (envelope.Response[LoginResult], error)
	Logout(ctx context.Context) (envelope.Response[struct{}], error)
	ChangePassword(ctx context.Context, current, next string) (envelope.Response[struct{}], error)
}

type ListParams struct {
	Page     int
	PageSize int
}

type ReferenceAPI interface {
	List(ctx context.Context, kind domain.ReferenceKind, p ListParams) (envelope.Response[envelope.Page[domain.ReferenceEntity]], error)
	Create(ctx context.Context, kind domain.ReferenceKind, in any) (envelope.Response[domain.ReferenceEntity], error)
	Update(ctx context.Context, kind domain.ReferenceKind, id string, in any) (envelope.Response[domain.ReferenceEntity], error)
}

type EmployeeAPI interface {
	List(ctx context.Context, state domain.EmployeeListState) (envelope.Response[envelope.Page[domain.Employee]], error)
	Get(ctx context.Context, id string) (envelope.Response[domain.Employee], error)
	Create(ctx context.Context, in domain.EmployeeInput) (envelope.Response[domain.Employee], error)
	Update(ctx context.Context, id string, in domain.EmployeeInput) (envelope.Response[domain.Employee], error)
}

type AttendanceAPI interface {
	Mine(ctx context.Context, f domain.AttendanceFilters) (envelope.Response[envelope.Page[domain.AttendanceRecord]], error)
	CheckIn(ctx context.Context) (envelope.Response[domain.AttendanceRecord], error)
	CheckOut(ctx context.Context) (envelope.Response[domain.AttendanceRecord], error)
	List(ctx context.Context, f domain.AttendanceFilters) (envelope.Response[envelope.Page[domain.AttendanceRecord]], error)
	Override(ctx context.Context, id string, in domain.AttendanceOverride) (envelope.Response[domain.AttendanceRecord], error)
}

type LeaveAPI interface {
	MyBalances(ctx context.Context, year int) (envelope.Response[[]domain.LeaveBalance], error)
	EmployeeBalances(ctx context.Context, employeeID string, year int) (envelope.Response[[]domain.LeaveBalance], error)
	CreateRequest(ctx context.Context, in domain.LeaveRequestInput) (envelope.Response[domain.LeaveRequest], error)
}

type AdminAPI interface {
	Summary(ctx context.Context) (envelope.Response[domain.AdminSummary], error)
	HRSummary(ctx context.Context) (envelope.Response[domain.HRSummary], error)

	ListUsers(ctx context.Context, f domain.UserFilters) (envelope.Response[envelope.Page[domain.UserAccount]], error)
	CreateUser(ctx context.Context, in domain.CreateUserInput) (envelope.Response[domain.UserAccount], error)
	SetUserStatus(ctx context.Context, id string, active bool) (envelope.Response[domain.UserAccount], error)
	SetUserRole(ctx context.Context, id string, role domain.Role) (envelope.Response[domain.UserAccount], error)
	ResetPassword(ctx context.Context, id string, mode domain.ResetMode) (envelope.Response[domain.ResetPasswordResult], error)

	ListInvites(ctx context.Context, p ListParams) (envelope.Response[envelope.Page[domain.Invite]], error)
	CreateInvite(ctx context.Context, in domain.CreateInviteInput) (envelope.Response[domain.Invite], error)
	ResendInvite(ctx context.Context, id string) (envelope.Response[domain.Invite], error)
	RevokeInvite(ctx context.Context, id string) (envelope.Response[struct{}], error)

	ListAuditLogs(ctx context.Context, f domain.AuditFilters) (envelope.Response[envelope.Page[domain.AuditLog]], error)
	ExportAuditLogs(ctx context.Context, f domain.AuditFilters) (io.ReadCloser, string, error)

	Settings(ctx context.Context) (envelope.Response[domain.Settings], error)
	UpdateSettings(ctx context.Context, in domain.Settings) (envelope.Response[domain.Settings], error)
}
