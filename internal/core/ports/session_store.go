package ports

import (
	"context"

	"github.com/ffi-hr/portal/internal/core/domain"
)

// SessionStore persists the auth token and the cached user as two separate
// records. Token returns "" and User returns nil when absent.
type SessionStore interface {
	SetToken(ctx context.Context, token string) error
	Token(ctx context.Context) (string, error)
	SetUser(ctx context.Context, user domain.SessionUser) error
	User(ctx context.Context) (*domain.SessionUser, error)
	Clear(ctx context.Context) error
}
