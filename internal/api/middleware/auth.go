package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/ffi-hr/portal/internal/core/auth"
	"github.com/ffi-hr/portal/internal/core/guard"
)

// Auth is the identity gate. Sessions still hydrating with a stored token
// see the waiting indicator. Anonymous ones are sent to login with the
// attempted page as next.
func Auth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := CurrentPortal(c)
			if err != nil {
				return err
			}
			st := p.Machine.Snapshot()
			ctx := c.Request().Context()
			hydrating := st.Status == auth.StatusUnknown && p.TokenStored(ctx)
			r := guard.Identity(st, hydrating, c.Request().URL.RequestURI())
			return decide(c, r, next)
		}
	}
}

func decide(c echo.Context, r guard.Result, next echo.HandlerFunc) error {
	switch r.Decision {
	case guard.Allow:
		return next(c)
	case guard.Wait:
		return Waiting(c)
	}
	return Navigate(c, r.Location)
}
