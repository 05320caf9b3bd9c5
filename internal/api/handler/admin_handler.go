package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/ports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler serves the system administration screens.
type AdminHandler struct {
	portal PortalFunc
	log    zerolog.Logger
}

func NewAdminHandler(current PortalFunc, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{portal: currentPortal(current), log: log.With().Str("component", "admin_handler").Logger()}
}

type userStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

type userRoleRequest struct {
	Role domain.Role `json:"role"`
}

type resetPasswordRequest struct {
	Mode domain.ResetMode `json:"mode"`
}

// @Summary      Admin dashboard
// @Tags         admin
// @Produce      json
// @Success      200  {object}  View
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	v, err := p.Admin.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, p, http.StatusOK, "admin_dashboard", v)
}

// @Summary      List users
// @Tags         admin
// @Produce      json
// @Param        search  query     string  false  "Name or email"
// @Param        role    query     string  false  "SystemAdmin, HRManager or Employee"
// @Param        status  query     string  false  "active or inactive"
// @Success      200     {object}  View
// @Failure      422     {object}  ErrorView
// @Router       /admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	var f domain.UserFilters
	if err := bind(c, &f); err != nil {
		return err
	}
	v, err := p.Admin.Users(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return render(c, p, http.StatusOK, "users", v)
}

// @Summary      Create user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CreateUserInput  true  "User"
// @Success      200   {object}  View
// @Failure      422   {object}  View
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	var in domain.CreateUserInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	res, err := p.Admin.CreateUser(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, p, "user", res, "User created")
}

// @Summary      Activate or deactivate a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User id"
// @Param        body  body      userStatusRequest  true  "Status"
// @Success      200   {object}  View
// @Router       /admin/users/{id}/status [patch]
func (h *AdminHandler) SetUserStatus(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	var req userStatusRequest
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "is_active is required")
	}
	res, err := p.Admin.SetUserStatus(c.Request().Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		return err
	}
	msg := "User deactivated"
	if *req.IsActive {
		msg = "User activated"
	}
	return respond(c, p, "user", res, msg)
}

// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "User id"
// @Param        body  body      userRoleRequest  true  "Role"
// @Success      200   {object}  View
// @Failure      422   {object}  View
// @Router       /admin/users/{id}/role [put]
func (h *AdminHandler) SetUserRole(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	var req userRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	res, err := p.Admin.SetUserRole(c.Request().Context(), c.Param("id"), req.Role)
	if err != nil {
		return err
	}
	return respond(c, p, "user", res, "Role updated")
}

// ResetPassword issues a temporary password or a reset link.
//
// @Summary      Reset a user's password
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "User id"
// @Param        body  body      resetPasswordRequest  true  "temporary_password or reset_link"
// @Success      200   {object}  View
// @Failure      422   {object}  View
// @Router       /admin/users/{id}/reset-password [post]
func (h *AdminHandler) ResetPassword(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	res, err := p.Admin.ResetPassword(c.Request().Context(), c.Param("id"), req.Mode)
	if err != nil {
		return err
	}
	return respond(c, p, "password_reset", res, "Password reset")
}

// @Summary      List invites
// @Tags         admin
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  View
// @Router       /admin/invites [get]
func (h *AdminHandler) Invites(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	params := ports.ListParams{Page: intParam(c, "page", 1), PageSize: intParam(c, "page_size", domain.DefaultPageSize)}
	v, err := p.Admin.Invites(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return render(c, p, http.StatusOK, "invites", v)
}

// @Summary      Create invite
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CreateInviteInput  true  "Invite"
// @Success      200   {object}  View
// @Failure      422   {object}  View
// @Router       /admin/invites [post]
func (h *AdminHandler) CreateInvite(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	var in domain.CreateInviteInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	res, err := p.Admin.CreateInvite(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, p, "invite", res, "Invite sent")
}

// @Summary      Resend invite
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Invite id"
// @Success      200  {object}  View
// @Router       /admin/invites/{id}/resend [post]
func (h *AdminHandler) ResendInvite(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	res, err := p.Admin.ResendInvite(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, p, "invite", res, "Invite resent")
}

// @Summary      Revoke invite
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Invite id"
// @Success      200  {object}  View
// @Router       /admin/invites/{id} [delete]
func (h *AdminHandler) RevokeInvite(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	res, err := p.Admin.RevokeInvite(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, p, "invite", res, "Invite revoked")
}

// @Summary      Audit logs
// @Tags         admin
// @Produce      json
// @Param        page         query     int     false  "Page number"
// @Param        page_size    query     int     false  "Page size"
// @Param        action       query     string  false  "Action"
// @Param        actor_email  query     string  false  "Actor email"
// @Param        entity       query     string  false  "Entity"
// @Param        from         query     string  false  "From date"
// @Param        to           query     string  false  "To date"
// @Param        search       query     string  false  "Free text"
// @Success      200          {object}  View
// @Router       /admin/audit-logs [get]
func (h *AdminHandler) AuditLogs(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	var f domain.AuditFilters
	if err := bind(c, &f); err != nil {
		return err
	}
	v, err := p.Admin.AuditLogs(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return render(c, p, http.StatusOK, "audit_logs", v)
}

// ExportAuditLogs downloads the filtered audit log, as the backend's CSV or
// as a workbook built here.
//
// @Summary      Export audit logs
// @Tags         admin
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format  query  string  false  "csv (default) or xlsx"
// @Success      200     {file}  file
// @Failure      400     {object}  ErrorView
// @Router       /admin/audit-logs/export [get]
func (h *AdminHandler) ExportAuditLogs(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	var f domain.AuditFilters
	if err := bind(c, &f); err != nil {
		return err
	}
	ctx := c.Request().Context()

	switch c.QueryParam("format") {
	case "", "csv":
		body, contentType, err := p.Admin.ExportAuditCSV(ctx, f)
		if err != nil {
			return err
		}
		defer body.Close()
		if contentType == "" {
			contentType = "text/csv"
		}
		attachment(c, "audit-logs.csv")
		return c.Stream(http.StatusOK, contentType, body)
	case "xlsx":
		w := &deferredWriter{c: c, name: "audit-logs.xlsx"}
		n, err := p.Admin.ExportAuditXLSX(ctx, f, w)
		if err != nil {
			if w.started {
				h.log.Error().Err(err).Msg("audit workbook export aborted")
				return nil
			}
			return err
		}
		h.log.Info().Int("rows", n).Msg("audit workbook exported")
		return nil
	}
	return echo.NewHTTPError(http.StatusBadRequest, "format must be csv or xlsx")
}

func attachment(c echo.Context, name string) {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
}

// deferredWriter sets the download headers on the first write so a failure
// before any bytes exist can still become an error response.
type deferredWriter struct {
	c       echo.Context
	name    string
	started bool
}

func (w *deferredWriter) Write(b []byte) (int, error) {
	if !w.started {
		w.started = true
		attachment(w.c, w.name)
		w.c.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
		w.c.Response().WriteHeader(http.StatusOK)
	}
	return w.c.Response().Write(b)
}

// @Summary      Portal settings
// @Tags         admin
// @Produce      json
// @Success      200  {object}  View
// @Router       /admin/settings [get]
func (h *AdminHandler) Settings(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	v, err := p.Admin.Settings(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, p, http.StatusOK, "settings", v)
}

// @Summary      Update portal settings
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      domain.Settings  true  "Settings"
// @Success      200   {object}  View
// @Failure      422   {object}  View
// @Router       /admin/settings [put]
func (h *AdminHandler) UpdateSettings(c echo.Context) error {
	p, err := h.portal(c)
	if err != nil {
		return err
	}
	var in domain.Settings
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	res, err := p.Admin.UpdateSettings(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, p, "settings", res, "Settings saved")
}
