package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ffi-hr/portal/internal/api/middleware"
	"github.com/ffi-hr/portal/internal/core/crud"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/guard"
	"github.com/ffi-hr/portal/internal/core/service"
)

type AuthHandler struct {
	portal PortalFunc
}

func NewAuthHandler(current PortalFunc) *AuthHandler {
	return &AuthHandler{portal: currentPortal(current)}
}

type loginForm struct {
	Next   string               `json:"next,omitempty"`
	Fields []loginFormField     `json:"fields"`
	Result *service.LoginResult `json:"result,omitempty"`
}

type loginFormField struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Required bool   `json:"required"`
}

var loginFields = []loginFormField{
	{Name: "email", Kind: "email", Required: true},
	{Name: "password", Kind: "password", Required: true},
}

type meResponse struct {
	User    *domain.SessionUser `json:"user"`
	Landing string              `json:"landing,omitempty"`
}

// LoginPage renders the login form. Signed-in sessions go straight to
// their landing page.
//
// @Summary      Login form
// @Tags         auth
// @Produce      json
// @Param        next  query     string  false  "Page to return to after login"
// @Success      200   {object}  View
// @Success      303
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	if st := p.Machine.Snapshot(); st.IsAuthenticated() {
		return middleware.Navigate(c, landing(st.User))
	}
	return render(c, p, http.StatusOK, "login", loginForm{Next: guard.SafeNext(c.QueryParam("next")), Fields: loginFields})
}

// Login authenticates against the backend and starts the portal session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      service.LoginInput  true  "Login credentials"
// @Success      303
// @Failure      401   {object}  View
// @Failure      422   {object}  View
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	var in service.LoginInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := p.Auth.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	if res.Outcome == crud.OutcomeSaved {
		return middleware.Navigate(c, res.Location)
	}

	status := outcomeStatus(res.Outcome)
	if res.Outcome == crud.OutcomeFailed {
		status = http.StatusUnauthorized
	}
	form := loginForm{Next: guard.SafeNext(in.Next), Fields: loginFields, Result: &res}
	return render(c, p, status, "login", form)
}

// Logout ends the portal session. It always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Success      303
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	if err := p.Auth.Logout(c.Request().Context()); err != nil {
		return err
	}
	return middleware.Navigate(c, guard.LoginPath)
}

// @Summary      Change password form
// @Tags         auth
// @Produce      json
// @Success      200  {object}  View
// @Router       /change-password [get]
func (h *AuthHandler) ChangePasswordPage(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	return render(c, p, http.StatusOK, "change_password", nil)
}

// ChangePassword submits a password change.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      service.ChangePasswordInput  true  "Current and new password"
// @Success      200   {object}  View
// @Failure      422   {object}  View
// @Router       /change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	var in service.ChangePasswordInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	res, err := p.Auth.ChangePassword(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, p, "change_password", res, "Password changed")
}

// @Summary      Access denied page
// @Tags         auth
// @Produce      json
// @Success      403  {object}  View
// @Router       /unauthorized [get]
func (h *AuthHandler) Unauthorized(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	user := p.User()
	return render(c, p, http.StatusForbidden, "unauthorized", meResponse{User: user, Landing: landing(user)})
}

// Me returns the signed-in user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  View
// @Router       /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	user, err := p.Auth.Me()
	if err != nil {
		return err
	}
	return render(c, p, http.StatusOK, "me", meResponse{User: user, Landing: landing(user)})
}

// landing is the home of user. A session without a user record has no
// home and ends up at the access denied page.
func landing(user *domain.SessionUser) string {
	if user == nil {
		return guard.UnauthorizedPath
	}
	return guard.Landing(user.Role)
}
