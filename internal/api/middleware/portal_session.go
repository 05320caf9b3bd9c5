package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ffi-hr/portal/internal/core/apierror"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/guard"
	"github.com/ffi-hr/portal/internal/portal"
)

const portalKey = "portal"

// Portals yields the portal of a session id.
type Portals interface {
	Get(ctx context.Context, sid string) (*portal.Portal, error)
}

// CookieConfig controls the portal session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// PortalSession binds the request to its portal session, issuing a session
// cookie on first contact. When anything during the request reported an
// expired session, the response becomes a hard navigation to login.
func PortalSession(portals Portals, cookie CookieConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := sessionID(c, cookie)

			ctx, nav := portal.WithNavigation(c.Request().Context())
			c.SetRequest(c.Request().WithContext(ctx))

			p, err := portals.Get(ctx, sid)
			if err != nil {
				return err
			}
			c.Set(portalKey, p)

			err = next(c)
			if nav.LoginRequested() || errors.Is(err, domain.ErrSessionExpired) || apierror.Classify(err) == apierror.KindUnauthorized {
				if c.Response().Committed {
					return nil
				}
				return Navigate(c, guard.LoginLocation(attempted(c)))
			}
			return err
		}
	}
}

func sessionID(c echo.Context, cfg CookieConfig) string {
	if ck, err := c.Cookie(cfg.Name); err == nil {
		if id, err := uuid.Parse(ck.Value); err == nil {
			return id.String()
		}
	}
	sid := uuid.NewString()
	ck := &http.Cookie{
		Name:     cfg.Name,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.MaxAge > 0 {
		ck.MaxAge = int(cfg.MaxAge / time.Second)
	}
	c.SetCookie(ck)
	return sid
}

// CurrentPortal returns the portal bound by PortalSession.
func CurrentPortal(c echo.Context) (*portal.Portal, error) {
	p, ok := c.Get(portalKey).(*portal.Portal)
	if !ok || p == nil {
		return nil, domain.ErrPortalSessionMissing
	}
	return p, nil
}

// Navigate performs a hard navigation: an HX-Redirect for htmx requests and
// a 303 otherwise.
func Navigate(c echo.Context, location string) error {
	if c.Request().Header.Get("HX-Request") == "true" {
		c.Response().Header().Set("HX-Redirect", location)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, location)
}

type waitingView struct {
	View string `json:"view"`
}

// Waiting renders the indicator shown while the session is still being
// resolved.
func Waiting(c echo.Context) error {
	c.Response().Header().Set("Retry-After", "1")
	return c.JSON(http.StatusAccepted, waitingView{View: "waiting"})
}

// attempted is the page to return to after login. Only GET targets are
// worth returning to.
func attempted(c echo.Context) string {
	if c.Request().Method != http.MethodGet {
		return ""
	}
	return c.Request().URL.RequestURI()
}
