package crud

import (
	"context"
	"sync"

	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/ports"
)

type item struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

type itemInput struct {
	Code string `json:"code" validate:"required,max=10"`
	Name string `json:"name" validate:"required"`
}

type stubSource struct {
	mu       sync.Mutex
	listFn   func(ctx context.Context, p ports.ListParams) (envelope.Response[envelope.Page[item]], error)
	createFn func(ctx context.Context, in itemInput) (envelope.Response[item], error)
	updateFn func(ctx context.Context, key string, in itemInput) (envelope.Response[item], error)
	lists    []ports.ListParams
	creates  int
}

func (s *stubSource) FetchList(ctx context.Context, p ports.ListParams) (envelope.Response[envelope.Page[item]], error) {
	s.mu.Lock()
	s.lists = append(s.lists, p)
	s.mu.Unlock()
	return s.listFn(ctx, p)
}

func (s *stubSource) CreateItem(ctx context.Context, in itemInput) (envelope.Response[item], error) {
	s.mu.Lock()
	s.creates++
	s.mu.Unlock()
	return s.createFn(ctx, in)
}

func (s *stubSource) UpdateItem(ctx context.Context, key string, in itemInput) (envelope.Response[item], error) {
	return s.updateFn(ctx, key, in)
}

func (s *stubSource) RowKey(r item) string { return r.ID }

func (s *stubSource) listCalls() []ports.ListParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.ListParams(nil), s.lists...)
}

func page(items ...item) envelope.Response[envelope.Page[item]] {
	return envelope.Success(envelope.Page[item]{Items: items, Total: len(items)}, "")
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []ports.Notification
}

func (n *recordingNotifier) Notify(note ports.Notification) {
	n.mu.Lock()
	n.notes = append(n.notes, note)
	n.mu.Unlock()
}

func (n *recordingNotifier) all() []ports.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.Notification(nil), n.notes...)
}
