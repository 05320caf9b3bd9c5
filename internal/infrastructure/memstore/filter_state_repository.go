package memstore

import (
	"context"
	"sync"

	"github.com/ffi-hr/portal/internal/core/domain"
)

// EmployeeListStateRepository keeps filter state per user in memory.
type EmployeeListStateRepository struct {
	mu     sync.RWMutex
	states map[string]domain.EmployeeListState
}

func NewEmployeeListStateRepository() *EmployeeListStateRepository {
	return &EmployeeListStateRepository{states: make(map[string]domain.EmployeeListState)}
}

func (r *EmployeeListStateRepository) Get(_ context.Context, userID string) (domain.EmployeeListState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.states[userID]; ok {
		return s, nil
	}
	return domain.DefaultEmployeeListState(), nil
}

func (r *EmployeeListStateRepository) Save(_ context.Context, userID string, state domain.EmployeeListState) error {
	r.mu.Lock()
	r.states[userID] = state
	r.mu.Unlock()
	return nil
}
