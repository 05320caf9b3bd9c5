package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/guard"
)

// RBAC is the role gate. It must run after Auth. A session without a user
// record fails every role check.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := append([]domain.Role(nil), allowedRoles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := CurrentPortal(c)
			if err != nil {
				return err
			}
			return decide(c, guard.Role(p.Machine.Snapshot(), allowed...), next)
		}
	}
}
