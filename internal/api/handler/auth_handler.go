package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login authenticates a user and returns a session token.
// Accounts are created by tenant admins (POST /api/users) or the
// create-admin command; there is no self sign-up.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      schema.LoginForm  true  "Login credentials"
// @Success      200   {object}  Response{data=authResponse}
// @Failure      400   {object}  Response
// @Failure      401   {object}  Response
// @Failure      422   {object}  Response
// @Failure      429   {object}  Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var form schema.LoginForm
	if err := bindBody(c, &form); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), &form)
	if err != nil {
		return err
	}

	return done(c, http.StatusOK, "Sesión iniciada", authResponse{Token: token, User: user})
}
