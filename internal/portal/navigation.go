package portal

import (
	"context"
	"sync/atomic"
)

type navKey struct{}

// Navigation records a hard-navigation request raised while serving one
// portal request.
type Navigation struct {
	toLogin atomic.Bool
}

// WithNavigation attaches a fresh Navigation to ctx.
func WithNavigation(ctx context.Context) (context.Context, *Navigation) {
	n := &Navigation{}
	return context.WithValue(ctx, navKey{}, n), n
}

// LoginRequested reports whether something asked for the login page.
func (n *Navigation) LoginRequested() bool { return n.toLogin.Load() }

// contextNavigator implements ports.Navigator against the Navigation of the
// request ctx. Calls outside a request, e.g. from a background reload, are
// dropped: the cleared session sends the user to login on the next request.
type contextNavigator struct{}

func (contextNavigator) ToLogin(ctx context.Context) {
	if n, ok := ctx.Value(navKey{}).(*Navigation); ok {
		n.toLogin.Store(true)
	}
}

// LoginRequested reports whether the Navigation of ctx asked for the login
// page. It is false outside a portal request.
func LoginRequested(ctx context.Context) bool {
	n, ok := ctx.Value(navKey{}).(*Navigation)
	return ok && n.LoginRequested()
}
