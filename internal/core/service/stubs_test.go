package service

import (
	"context"
	"sync"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/ports"
)

type stubAuthAPI struct {
	loginFn          func(ctx context.Context, email, password string) (envelope.Response[ports.LoginResult], error)
	logoutFn         func(ctx context.Context) (envelope.Response[struct{}], error)
	changePasswordFn func(ctx context.Context, current, next string) (envelope.Response[struct{}], error)
	logoutCalls      int
}

func (s *stubAuthAPI) Login(ctx context.Context, email, password string) (envelope.Response[ports.LoginResult], error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthAPI) Logout(ctx context.Context) (envelope.Response[struct{}], error) {
	s.logoutCalls++
	if s.logoutFn == nil {
		return envelope.Success(struct{}{}, ""), nil
	}
	return s.logoutFn(ctx)
}

func (s *stubAuthAPI) ChangePassword(ctx context.Context, current, next string) (envelope.Response[struct{}], error) {
	return s.changePasswordFn(ctx, current, next)
}

type stubReferenceAPI struct {
	mu       sync.Mutex
	listFn   func(ctx context.Context, kind domain.ReferenceKind, p ports.ListParams) (envelope.Response[envelope.Page[domain.ReferenceEntity]], error)
	created  []any
	updated  map[string]any
	createFn func(in any) (envelope.Response[domain.ReferenceEntity], error)
}

func (s *stubReferenceAPI) List(ctx context.Context, kind domain.ReferenceKind, p ports.ListParams) (envelope.Response[envelope.Page[domain.ReferenceEntity]], error) {
	return s.listFn(ctx, kind, p)
}

func (s *stubReferenceAPI) Create(_ context.Context, _ domain.ReferenceKind, in any) (envelope.Response[domain.ReferenceEntity], error) {
	s.mu.Lock()
	s.created = append(s.created, in)
	s.mu.Unlock()
	if s.createFn != nil {
		return s.createFn(in)
	}
	return envelope.Success(domain.ReferenceEntity{ID: "9"}, ""), nil
}

func (s *stubReferenceAPI) Update(_ context.Context, _ domain.ReferenceKind, id string, in any) (envelope.Response[domain.ReferenceEntity], error) {
	s.mu.Lock()
	if s.updated == nil {
		s.updated = map[string]any{}
	}
	s.updated[id] = in
	s.mu.Unlock()
	return envelope.Success(domain.ReferenceEntity{ID: domain.ID(id)}, ""), nil
}

type stubEmployeeAPI struct {
	listFn func(ctx context.Context, st domain.EmployeeListState) (envelope.Response[envelope.Page[domain.Employee]], error)
	lastIn domain.EmployeeInput
}

func (s *stubEmployeeAPI) List(ctx context.Context, st domain.EmployeeListState) (envelope.Response[envelope.Page[domain.Employee]], error) {
	return s.listFn(ctx, st)
}

func (s *stubEmployeeAPI) Get(_ context.Context, id string) (envelope.Response[domain.Employee], error) {
	return envelope.Success(domain.Employee{ID: domain.ID(id)}, ""), nil
}

func (s *stubEmployeeAPI) Create(_ context.Context, in domain.EmployeeInput) (envelope.Response[domain.Employee], error) {
	s.lastIn = in
	return envelope.Success(domain.Employee{ID: "1", FullName: in.FullName}, ""), nil
}

func (s *stubEmployeeAPI) Update(_ context.Context, id string, in domain.EmployeeInput) (envelope.Response[domain.Employee], error) {
	s.lastIn = in
	return envelope.Success(domain.Employee{ID: domain.ID(id), FullName: in.FullName}, ""), nil
}

type stubLeaveAPI struct {
	balances []domain.LeaveBalance
	year     int
	created  int
}

func (s *stubLeaveAPI) MyBalances(_ context.Context, year int) (envelope.Response[[]domain.LeaveBalance], error) {
	s.year = year
	return envelope.Success(s.balances, ""), nil
}

func (s *stubLeaveAPI) EmployeeBalances(_ context.Context, _ string, year int) (envelope.Response[[]domain.LeaveBalance], error) {
	s.year = year
	return envelope.Success(s.balances, ""), nil
}

func (s *stubLeaveAPI) CreateRequest(_ context.Context, in domain.LeaveRequestInput) (envelope.Response[domain.LeaveRequest], error) {
	s.created++
	return envelope.Success(domain.LeaveRequest{ID: "1", LeaveType: in.LeaveType, StartDate: in.StartDate, EndDate: in.EndDate}, ""), nil
}

type stubAdminAPI struct {
	ports.AdminAPI
	auditFn func(ctx context.Context, f domain.AuditFilters) (envelope.Response[envelope.Page[domain.AuditLog]], error)
	roles   []domain.Role
}

func (s *stubAdminAPI) ListAuditLogs(ctx context.Context, f domain.AuditFilters) (envelope.Response[envelope.Page[domain.AuditLog]], error) {
	return s.auditFn(ctx, f)
}

func (s *stubAdminAPI) SetUserRole(_ context.Context, id string, role domain.Role) (envelope.Response[domain.UserAccount], error) {
	s.roles = append(s.roles, role)
	return envelope.Success(domain.UserAccount{ID: domain.ID(id), Role: role}, ""), nil
}

type memStates struct {
	states map[string]domain.EmployeeListState
	err    error
}

func (m *memStates) Get(_ context.Context, userID string) (domain.EmployeeListState, error) {
	if m.err != nil {
		return domain.EmployeeListState{}, m.err
	}
	st, ok := m.states[userID]
	if !ok {
		return domain.DefaultEmployeeListState(), nil
	}
	return st, nil
}

func (m *memStates) Save(_ context.Context, userID string, st domain.EmployeeListState) error {
	if m.err != nil {
		return m.err
	}
	if m.states == nil {
		m.states = map[string]domain.EmployeeListState{}
	}
	m.states[userID] = st
	return nil
}
