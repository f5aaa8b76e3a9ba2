package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/session"
)

// MsgUnauthenticated is the message of every 401 answered by Auth.
const MsgUnauthenticated = "Usuario no autenticado"

// UserFinder loads the account a session belongs to.
type UserFinder interface {
	FindByID(ctx context.Context, tenantID, id string) (*domain.User, error)
}

// Auth validates the session JWT and stores the actor in the request context.
// Role, name and email come from the stored account, so a demoted or deleted
// user loses access before the token expires.
func Auth(jwtSecret string, users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgUnauthenticated)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgUnauthenticated)
			}

			claims, err := session.Parse(strings.TrimSpace(parts[1]), jwtSecret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgUnauthenticated).SetInternal(err)
			}

			actor := claims.Actor()
			user, err := users.FindByID(c.Request().Context(), actor.TenantID, actor.UserID)
			if errors.Is(err, domain.ErrUserNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgUnauthenticated).SetInternal(err)
			}
			if err != nil {
				return err
			}
			actor.Role = user.Role
			actor.Name = user.Name
			actor.Email = user.Email

			c.SetRequest(c.Request().WithContext(session.WithActor(c.Request().Context(), actor)))
			c.Set("user_id", actor.UserID)
			c.Set("role", actor.Role)

			return next(c)
		}
	}
}
