package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/session"
)

// errInvalidPayload is answered when the body or the query string cannot be
// decoded into the expected form.
var errInvalidPayload = echo.NewHTTPError(http.StatusBadRequest, "Solicitud inválida")

var binder = &echo.DefaultBinder{}

// actorFrom returns the caller resolved by the Auth middleware. It is nil on
// public routes; the services reject nil actors themselves.
func actorFrom(c echo.Context) *domain.Actor {
	return session.ActorFrom(c.Request().Context())
}

// bindBody decodes the JSON body into form.
func bindBody(c echo.Context, form any) error {
	if err := binder.BindBody(c, form); err != nil {
		return errInvalidPayload.WithInternal(err)
	}
	return nil
}

// bindQuery decodes the query string into q.
func bindQuery(c echo.Context, q any) error {
	if err := binder.BindQueryParams(c, q); err != nil {
		return errInvalidPayload.WithInternal(err)
	}
	return nil
}

// requireConfirmation enforces confirm-then-delete: destructive routes only
// proceed with ?confirm=true.
func requireConfirmation(c echo.Context) error {
	ok, _ := strconv.ParseBool(c.QueryParam("confirm"))
	if !ok {
		return domain.ErrConfirmationRequired
	}
	return nil
}
