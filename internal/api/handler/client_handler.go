package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
)

type ClientHandler struct {
	clients ports.ClientService
	views   *Views
}

func NewClientHandler(clients ports.ClientService, views *Views) *ClientHandler {
	return &ClientHandler{clients: clients, views: views}
}

// List returns one page of the caller's clients.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Rows per page (max 100)"
// @Param        sort    query     string  false  "Sort field"
// @Param        order   query     string  false  "asc or desc"
// @Param        search  query     string  false  "Name, email or company"
// @Success      200     {object}  Response
// @Failure      401     {object}  Response
// @Router       /api/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	var q schema.ListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	return h.views.list(c, ports.ClientsPath, func(ctx context.Context) (any, error) {
		page, err := h.clients.List(ctx, actorFrom(c), &q)
		if err != nil {
			return nil, err
		}
		return listData(page), nil
	})
}

// Get returns a client for the edit dialog.
//
// @Summary      Get client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  Response
// @Router       /api/clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	client, err := h.clients.Get(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, client)
}

// Create registers a client.
//
// @Summary      Create client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      schema.ClientForm  true  "Client"
// @Success      201   {object}  Response
// @Failure      422   {object}  Response
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var form schema.ClientForm
	if err := bindBody(c, &form); err != nil {
		return err
	}
	client, err := h.clients.Create(c.Request().Context(), actorFrom(c), &form)
	if err != nil {
		return err
	}
	return done(c, http.StatusCreated, "Cliente creado correctamente", client)
}

// Update replaces the editable fields of a client.
//
// @Summary      Update client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Client ID"
// @Param        body  body      schema.ClientForm  true  "Client"
// @Success      200   {object}  Response
// @Failure      404   {object}  Response
// @Failure      422   {object}  Response
// @Router       /api/clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	var form schema.ClientForm
	if err := bindBody(c, &form); err != nil {
		return err
	}
	client, err := h.clients.Update(c.Request().Context(), actorFrom(c), c.Param("id"), &form)
	if err != nil {
		return err
	}
	return done(c, http.StatusOK, "Cliente actualizado correctamente", client)
}

// Delete removes a client. Requires ?confirm=true.
//
// @Summary      Delete client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Client ID"
// @Param        confirm  query     bool    true  "Must be true"
// @Success      200      {object}  Response
// @Failure      404      {object}  Response
// @Failure      428      {object}  Response
// @Router       /api/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	if err := requireConfirmation(c); err != nil {
		return err
	}
	if err := h.clients.Delete(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return err
	}
	return done(c, http.StatusOK, "Cliente eliminado correctamente", nil)
}
