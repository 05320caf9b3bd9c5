package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ffi-hr/portal/internal/api/middleware"
	"github.com/ffi-hr/portal/internal/core/crud"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/formerrors"
	"github.com/ffi-hr/portal/internal/core/ports"
	"github.com/ffi-hr/portal/internal/portal"
)

// PortalFunc resolves the portal session of a request.
type PortalFunc func(c echo.Context) (*portal.Portal, error)

func currentPortal(f PortalFunc) PortalFunc {
	if f == nil {
		return middleware.CurrentPortal
	}
	return f
}

// View is the JSON render instruction of a portal screen. Pending
// notifications ride along with whatever screen renders next.
type View struct {
	View          string               `json:"view"`
	Data          any                  `json:"data,omitempty"`
	Notifications []ports.Notification `json:"notifications,omitempty"`
}

// ErrorView is the error envelope of the portal.
type ErrorView struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  formerrors.Errors `json:"errors,omitempty"`
}

// render writes a view. A request that lost its session renders nothing:
// the session middleware sends it to login instead.
func render(c echo.Context, p *portal.Portal, status int, view string, data any) error {
	if portal.LoginRequested(c.Request().Context()) {
		return domain.ErrSessionExpired
	}
	return c.JSON(status, View{View: view, Data: data, Notifications: p.Notifications()})
}

// respond renders a mutation result. Successes and plain failures also post
// a notification; field errors and forbidden are rendered on the view.
func respond[V any](c echo.Context, p *portal.Portal, view string, res crud.Result[V], saved string) error {
	switch res.Outcome {
	case crud.OutcomeSaved:
		msg := saved
		if msg == "" {
			msg = res.Message
		}
		if msg != "" {
			p.Notify(ports.NotifySuccess, msg)
		}
	case crud.OutcomeFailed:
		p.Notify(ports.NotifyError, res.Message)
	}
	return render(c, p, outcomeStatus(res.Outcome), view, res)
}

func outcomeStatus(o crud.Outcome) int {
	switch o {
	case crud.OutcomeSaved:
		return http.StatusOK
	case crud.OutcomeInvalid:
		return http.StatusUnprocessableEntity
	case crud.OutcomeForbidden:
		return http.StatusForbidden
	case crud.OutcomeSessionExpired:
		return http.StatusUnauthorized
	}
	return http.StatusBadGateway
}

// bind decodes the request and runs the validator when one is installed.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}

// intParam reads an integer query or form value, returning def when it is
// absent or malformed.
func intParam(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		v = c.FormValue(name)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
