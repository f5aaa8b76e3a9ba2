package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
)

type ContactHandler struct {
	contact ports.ContactService
}

func NewContactHandler(contact ports.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// Send delivers a message from the public contact form.
//
// @Summary      Send contact message
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      schema.ContactForm  true  "Message"
// @Success      200   {object}  Response
// @Failure      422   {object}  Response
// @Failure      429   {object}  Response
// @Router       /contact [post]
func (h *ContactHandler) Send(c echo.Context) error {
	var form schema.ContactForm
	if err := bindBody(c, &form); err != nil {
		return err
	}
	if err := h.contact.Send(c.Request().Context(), c.RealIP(), &form); err != nil {
		return err
	}
	return done(c, http.StatusOK, "Mensaje enviado correctamente", nil)
}
