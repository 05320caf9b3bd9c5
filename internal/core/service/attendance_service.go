package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ffi-hr/portal/internal/core/crud"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/ports"
)

// AttendanceService covers employee self-service and the HR attendance list.
type AttendanceService struct {
	api      ports.AttendanceAPI
	validate *validator.Validate
	now      func() time.Time
}

func NewAttendanceService(api ports.AttendanceAPI, v *validator.Validate) *AttendanceService {
	return &AttendanceService{api: api, validate: v, now: time.Now}
}

// Today loads the caller's record for the current day.
func (s *AttendanceService) Today(ctx context.Context) (crud.PageView[envelope.Page[domain.AttendanceRecord]], error) {
	day := s.now().Format(time.DateOnly)
	f := domain.AttendanceFilters{DateFrom: day, DateTo: day}
	return crud.Fetch(ctx, func(ctx context.Context) (envelope.Response[envelope.Page[domain.AttendanceRecord]], error) {
		return s.api.Mine(ctx, f)
	}, crud.EmptyPage[domain.AttendanceRecord])
}

func (s *AttendanceService) CheckIn(ctx context.Context) (crud.Result[domain.AttendanceRecord], error) {
	return crud.Submit(ctx, nil, nil, s.api.CheckIn, "Check-in failed")
}

func (s *AttendanceService) CheckOut(ctx context.Context) (crud.Result[domain.AttendanceRecord], error) {
	return crud.Submit(ctx, nil, nil, s.api.CheckOut, "Check-out failed")
}

// List is the HR view over every employee.
func (s *AttendanceService) List(ctx context.Context, f domain.AttendanceFilters) (crud.PageView[envelope.Page[domain.AttendanceRecord]], error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = domain.DefaultPageSize
	}
	return crud.Fetch(ctx, func(ctx context.Context) (envelope.Response[envelope.Page[domain.AttendanceRecord]], error) {
		return s.api.List(ctx, f)
	}, crud.EmptyPage[domain.AttendanceRecord])
}

// Override corrects a record. A reason is mandatory.
func (s *AttendanceService) Override(ctx context.Context, id string, in domain.AttendanceOverride) (crud.Result[domain.AttendanceRecord], error) {
	in.OverrideReason = strings.TrimSpace(in.OverrideReason)
	return crud.Submit(ctx, s.validate, in, func(ctx context.Context) (envelope.Response[domain.AttendanceRecord], error) {
		return s.api.Override(ctx, id, in)
	}, "Failed to update attendance")
}
