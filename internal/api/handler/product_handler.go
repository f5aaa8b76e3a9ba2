package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
)

type ProductHandler struct {
	products ports.ProductService
	views    *Views
}

func NewProductHandler(products ports.ProductService, views *Views) *ProductHandler {
	return &ProductHandler{products: products, views: views}
}

// List returns one page of the caller's inventory.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Rows per page (max 100)"
// @Param        sort    query     string  false  "Sort field"
// @Param        order   query     string  false  "asc or desc"
// @Param        search  query     string  false  "Name or SKU"
// @Success      200     {object}  Response
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	var q schema.ListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	return h.views.list(c, ports.ProductsPath, func(ctx context.Context) (any, error) {
		page, err := h.products.List(ctx, actorFrom(c), &q)
		if err != nil {
			return nil, err
		}
		return listData(page), nil
	})
}

// Get returns a product.
//
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  Response
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.products.Get(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, product)
}

// Create adds a product to the inventory.
//
// @Summary      Create product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      schema.ProductForm  true  "Product"
// @Success      201   {object}  Response
// @Failure      409   {object}  Response
// @Failure      422   {object}  Response
// @Router       /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var form schema.ProductForm
	if err := bindBody(c, &form); err != nil {
		return err
	}
	product, err := h.products.Create(c.Request().Context(), actorFrom(c), &form)
	if err != nil {
		return err
	}
	return done(c, http.StatusCreated, "Producto creado correctamente", product)
}

// Update replaces the editable fields of a product.
//
// @Summary      Update product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Product ID"
// @Param        body  body      schema.ProductForm  true  "Product"
// @Success      200   {object}  Response
// @Failure      404   {object}  Response
// @Failure      422   {object}  Response
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var form schema.ProductForm
	if err := bindBody(c, &form); err != nil {
		return err
	}
	product, err := h.products.Update(c.Request().Context(), actorFrom(c), c.Param("id"), &form)
	if err != nil {
		return err
	}
	return done(c, http.StatusOK, "Producto actualizado correctamente", product)
}

// UpdateQuantity sets the stock of a product.
//
// @Summary      Update inventory quantity
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Product ID"
// @Param        body  body      schema.QuantityForm  true  "Quantity"
// @Success      200   {object}  Response
// @Failure      404   {object}  Response
// @Failure      422   {object}  Response
// @Router       /api/products/{id}/quantity [patch]
func (h *ProductHandler) UpdateQuantity(c echo.Context) error {
	var form schema.QuantityForm
	if err := bindBody(c, &form); err != nil {
		return err
	}
	product, err := h.products.UpdateQuantity(c.Request().Context(), actorFrom(c), c.Param("id"), &form)
	if err != nil {
		return err
	}
	return done(c, http.StatusOK, "Inventario actualizado correctamente", product)
}

// Delete removes a product. Requires ?confirm=true.
//
// @Summary      Delete product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Product ID"
// @Param        confirm  query     bool    true  "Must be true"
// @Success      200      {object}  Response
// @Failure      404      {object}  Response
// @Failure      428      {object}  Response
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := requireConfirmation(c); err != nil {
		return err
	}
	if err := h.products.Delete(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return err
	}
	return done(c, http.StatusOK, "Producto eliminado correctamente", nil)
}
