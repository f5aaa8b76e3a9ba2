package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/contalink/backoffice/internal/api/handler"
	"github.com/contalink/backoffice/internal/core/domain"
)

const msgInternal = "Ocurrió un error inesperado, intenta de nuevo"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the notification envelope {"success": false, "message", "errors"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.Response) {
	fail := func(code int, msg string) (int, handler.Response) {
		return code, handler.Response{Success: false, Message: msg}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, handler.Response{
			Message: "Revisa los campos marcados",
			Errors:  ve.Fields,
		}
	}

	// Echo's own errors (bind failures, 404 from router, middleware rejections)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("http error")
		}
		return fail(he.Code, fmt.Sprintf("%v", he.Message))
	}

	switch {
	case errors.Is(err, domain.ErrSellerRequired):
		return http.StatusUnprocessableEntity, handler.Response{
			Message: "Debes seleccionar un vendedor",
			Errors:  map[string]string{"seller_id": "debes seleccionar un vendedor"},
		}
	case errors.Is(err, domain.ErrUnauthenticated):
		return fail(http.StatusUnauthorized, "Usuario no autenticado")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fail(http.StatusUnauthorized, "Correo o contraseña incorrectos")
	case errors.Is(err, domain.ErrForbidden):
		return fail(http.StatusForbidden, "No tienes permiso para realizar esta acción")
	case errors.Is(err, domain.ErrSelfModification):
		return fail(http.StatusForbidden, "No puedes modificar tu propia cuenta")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fail(http.StatusNotFound, "El registro no existe")
	case errors.Is(err, domain.ErrUserExists):
		return fail(http.StatusConflict, "Ya existe un usuario con ese correo")
	case errors.Is(err, domain.ErrConflict):
		return fail(http.StatusConflict, "Ya existe un registro con esos datos")
	case errors.Is(err, domain.ErrInvalidTransition):
		return fail(http.StatusConflict, "El cambio de estado no está permitido")
	case errors.Is(err, domain.ErrInsufficientStock):
		return fail(http.StatusConflict, "No hay existencias suficientes")
	case errors.Is(err, domain.ErrOrderLocked):
		return fail(http.StatusConflict, "El pedido ya no se puede eliminar")
	case errors.Is(err, domain.ErrConfirmationRequired):
		return fail(http.StatusPreconditionRequired, "Confirmación requerida")
	case errors.Is(err, domain.ErrRateLimited):
		return fail(http.StatusTooManyRequests, "Demasiadas solicitudes, intenta más tarde")
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return fail(http.StatusInternalServerError, msgInternal)
}
