package ports

import (
	"context"

	"github.com/ffi-hr/portal/internal/core/domain"
)

// EmployeeListStateRepository stores the employee directory filter state per
// user. Get returns the default state when nothing is stored.
type EmployeeListStateRepository interface {
	Get(ctx context.Context, userID string) (domain.EmployeeListState, error)
	Save(ctx context.Context, userID string, state domain.EmployeeListState) error
}
