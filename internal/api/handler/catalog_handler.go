package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
)

// CatalogHandler serves the tenant's catalog of services.
type CatalogHandler struct {
	catalog ports.CatalogService
	views   *Views
}

func NewCatalogHandler(catalog ports.CatalogService, views *Views) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, views: views}
}

// List returns one page of services. Only admins see inactive ones.
//
// @Summary      List services
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Rows per page (max 100)"
// @Param        search  query     string  false  "Name"
// @Success      200     {object}  Response
// @Router       /api/services [get]
func (h *CatalogHandler) List(c echo.Context) error {
	var q schema.ListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	return h.views.list(c, ports.ServicesPath, func(ctx context.Context) (any, error) {
		page, err := h.catalog.List(ctx, actorFrom(c), &q)
		if err != nil {
			return nil, err
		}
		return listData(page), nil
	})
}

// @Summary      Get service
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  Response
// @Router       /api/services/{id} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	svc, err := h.catalog.Get(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, svc)
}

// @Summary      Create service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      schema.ServiceForm  true  "Service"
// @Success      201   {object}  Response
// @Failure      403   {object}  Response
// @Failure      422   {object}  Response
// @Router       /api/services [post]
func (h *CatalogHandler) Create(c echo.Context) error {
	var form schema.ServiceForm
	if err := bindBody(c, &form); err != nil {
		return err
	}
	svc, err := h.catalog.Create(c.Request().Context(), actorFrom(c), &form)
	if err != nil {
		return err
	}
	return done(c, http.StatusCreated, "Servicio creado correctamente", svc)
}

// @Summary      Update service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Service ID"
// @Param        body  body      schema.ServiceForm  true  "Service"
// @Success      200   {object}  Response
// @Failure      404   {object}  Response
// @Failure      422   {object}  Response
// @Router       /api/services/{id} [put]
func (h *CatalogHandler) Update(c echo.Context) error {
	var form schema.ServiceForm
	if err := bindBody(c, &form); err != nil {
		return err
	}
	svc, err := h.catalog.Update(c.Request().Context(), actorFrom(c), c.Param("id"), &form)
	if err != nil {
		return err
	}
	return done(c, http.StatusOK, "Servicio actualizado correctamente", svc)
}

// @Summary      Delete service
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Service ID"
// @Param        confirm  query     bool    true  "Must be true"
// @Success      200      {object}  Response
// @Failure      404      {object}  Response
// @Failure      428      {object}  Response
// @Router       /api/services/{id} [delete]
func (h *CatalogHandler) Delete(c echo.Context) error {
	if err := requireConfirmation(c); err != nil {
		return err
	}
	if err := h.catalog.Delete(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return err
	}
	return done(c, http.StatusOK, "Servicio eliminado correctamente", nil)
}
