package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ffi-hr/portal/internal/core/crud"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/formerrors"
	"github.com/ffi-hr/portal/internal/core/ports"
)

// LeaveBalancesView is a year of balances with their column totals.
type LeaveBalancesView struct {
	crud.PageView[[]domain.LeaveBalance]
	Year   int                `json:"year"`
	Totals domain.LeaveTotals `json:"totals"`
}

type LeaveService struct {
	api      ports.LeaveAPI
	validate *validator.Validate
	now      func() time.Time
}

func NewLeaveService(api ports.LeaveAPI, v *validator.Validate) *LeaveService {
	return &LeaveService{api: api, validate: v, now: time.Now}
}

func (s *LeaveService) year(y int) int {
	if y <= 0 {
		return s.now().Year()
	}
	return y
}

// MyBalances loads the caller's balances for year (0 means this year).
func (s *LeaveService) MyBalances(ctx context.Context, year int) (LeaveBalancesView, error) {
	year = s.year(year)
	return s.balances(ctx, year, func(ctx context.Context) (envelope.Response[[]domain.LeaveBalance], error) {
		return s.api.MyBalances(ctx, year)
	})
}

// EmployeeBalances is the HR view of one employee's balances.
func (s *LeaveService) EmployeeBalances(ctx context.Context, employeeID string, year int) (LeaveBalancesView, error) {
	year = s.year(year)
	return s.balances(ctx, year, func(ctx context.Context) (envelope.Response[[]domain.LeaveBalance], error) {
		return s.api.EmployeeBalances(ctx, employeeID, year)
	})
}

func (s *LeaveService) balances(ctx context.Context, year int, fetch func(context.Context) (envelope.Response[[]domain.LeaveBalance], error)) (LeaveBalancesView, error) {
	pv, err := crud.Fetch(ctx, fetch, crud.EmptySlice[domain.LeaveBalance])
	return LeaveBalancesView{PageView: pv, Year: year, Totals: domain.SumLeaveBalances(pv.Data)}, err
}

// Request submits a leave request. The end date may not precede the start.
func (s *LeaveService) Request(ctx context.Context, in domain.LeaveRequestInput) (crud.Result[domain.LeaveRequest], error) {
	start, serr := time.Parse(time.DateOnly, in.StartDate)
	end, eerr := time.Parse(time.DateOnly, in.EndDate)
	if serr == nil && eerr == nil && end.Before(start) {
		return crud.Result[domain.LeaveRequest]{
			Outcome: crud.OutcomeInvalid,
			Errors:  formerrors.Errors{{Field: "end_date", Messages: []string{"End date must not be before start date"}}},
		}, nil
	}
	return crud.Submit(ctx, s.validate, in, func(ctx context.Context) (envelope.Response[domain.LeaveRequest], error) {
		return s.api.CreateRequest(ctx, in)
	}, "Failed to submit leave request")
}
