package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contalink/backoffice/internal/core/session"
)

// MsgForbidden is the message of every 403 answered by RBAC.
const MsgForbidden = "No tienes permiso para realizar esta acción"

// RBAC enforces role-based access control on a route group. It runs after
// Auth; the services still check permissions and ownership per record.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := session.ActorFrom(c.Request().Context())
			if actor == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgUnauthenticated)
			}
			if _, ok := allowed[actor.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, MsgForbidden)
			}
			return next(c)
		}
	}
}
