package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ffi-hr/portal/internal/core/crud"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/ports"
)

// EmployeeListView is the employee directory page together with the filter
// state it was loaded with.
type EmployeeListView struct {
	crud.PageView[envelope.Page[domain.Employee]]
	Filters domain.EmployeeListState `json:"filters"`
}

// EmployeeService drives the employee directory. Filter state is kept per
// user so it survives navigation.
type EmployeeService struct {
	api      ports.EmployeeAPI
	states   ports.EmployeeListStateRepository
	validate *validator.Validate
	log      zerolog.Logger
}

func NewEmployeeService(api ports.EmployeeAPI, states ports.EmployeeListStateRepository, v *validator.Validate, log zerolog.Logger) *EmployeeService {
	return &EmployeeService{api: api, states: states, validate: v, log: log.With().Str("component", "employee_service").Logger()}
}

// State returns the stored filter state of userID. A store failure falls
// back to the defaults.
func (s *EmployeeService) State(ctx context.Context, userID string) domain.EmployeeListState {
	st, err := s.states.Get(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Msg("reading employee filter state")
		return domain.DefaultEmployeeListState()
	}
	if st.Page < 1 || st.PageSize < 1 {
		return domain.DefaultEmployeeListState()
	}
	return st
}

// List loads the page described by the stored state of userID.
func (s *EmployeeService) List(ctx context.Context, userID string) (EmployeeListView, error) {
	st := s.State(ctx, userID)
	pv, err := crud.Fetch(ctx, func(ctx context.Context) (envelope.Response[envelope.Page[domain.Employee]], error) {
		return s.api.List(ctx, st)
	}, crud.EmptyPage[domain.Employee])
	return EmployeeListView{PageView: pv, Filters: st}, err
}

// FilterChange is one user edit of the filter bar. Nil fields are left
// untouched.
type FilterChange struct {
	Search   *string                 `json:"search"`
	Filters  *domain.EmployeeFilters `json:"filters"`
	Page     *int                    `json:"page"`
	PageSize *int                    `json:"page_size"`
	Reset    bool                    `json:"reset"`
}

// ApplyFilters applies change to the stored state and persists the result.
// Reset wins over every other field.
func (s *EmployeeService) ApplyFilters(ctx context.Context, userID string, change FilterChange) (domain.EmployeeListState, error) {
	st := s.State(ctx, userID)
	switch {
	case change.Reset:
		st = domain.DefaultEmployeeListState()
	default:
		if change.Search != nil {
			st = st.WithSearch(*change.Search)
		}
		if change.Filters != nil {
			st = st.WithFilters(*change.Filters)
		}
		if change.PageSize != nil {
			st = st.WithPageSize(*change.PageSize)
		}
		if change.Page != nil {
			st = st.WithPage(*change.Page)
		}
	}
	if err := s.states.Save(ctx, userID, st); err != nil {
		return st, fmt.Errorf("save employee filter state: %w", err)
	}
	return st, nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (crud.PageView[domain.Employee], error) {
	return crud.Fetch(ctx, func(ctx context.Context) (envelope.Response[domain.Employee], error) {
		return s.api.Get(ctx, id)
	}, nil)
}

func (s *EmployeeService) Create(ctx context.Context, in domain.EmployeeInput) (crud.Result[domain.Employee], error) {
	return crud.Submit(ctx, s.validate, in, func(ctx context.Context) (envelope.Response[domain.Employee], error) {
		return s.api.Create(ctx, in)
	}, "Failed to create employee")
}

func (s *EmployeeService) Update(ctx context.Context, id string, in domain.EmployeeInput) (crud.Result[domain.Employee], error) {
	return crud.Submit(ctx, s.validate, in, func(ctx context.Context) (envelope.Response[domain.Employee], error) {
		return s.api.Update(ctx, id, in)
	}, "Failed to update employee")
}
