package backend

import (
	"context"
	"net/http"

	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/ports"
)

// AuthAPI implements ports.AuthAPI.
type AuthAPI struct{ c *Client }

func (c *Client) Auth() *AuthAPI { return &AuthAPI{c: c} }

// Login never carries the current session's token, so a wrong password from
// a signed-in browser leaves that session alone.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (envelope.Response[ports.LoginResult], error) {
	body := map[string]string{"email": email, "password": password}
	return do[ports.LoginResult](withoutCredentials(ctx), a.c, http.MethodPost, "/auth/login", nil, body)
}

func (a *AuthAPI) Logout(ctx context.Context) (envelope.Response[struct{}], error) {
	return do[struct{}](ctx, a.c, http.MethodPost, "/auth/logout", nil, nil)
}

func (a *AuthAPI) ChangePassword(ctx context.Context, current, next string) (envelope.Response[struct{}], error) {
	body := map[string]string{"current_password": current, "new_password": next}
	return do[struct{}](ctx, a.c, http.MethodPost, "/auth/change-password", nil, body)
}
