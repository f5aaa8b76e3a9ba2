package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
)

type OrderHandler struct {
	orders ports.OrderService
	views  *Views
}

func NewOrderHandler(orders ports.OrderService, views *Views) *OrderHandler {
	return &OrderHandler{orders: orders, views: views}
}

// List returns one page of orders.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Rows per page (max 100)"
// @Param        sort    query     string  false  "Sort field"
// @Param        order   query     string  false  "asc or desc"
// @Param        search  query     string  false  "Customer name or email"
// @Param        status  query     string  false  "pending, paid, shipped, delivered or cancelled"
// @Success      200     {object}  Response
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	var q schema.OrderQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	return h.views.list(c, ports.OrdersPath, func(ctx context.Context) (any, error) {
		page, err := h.orders.List(ctx, actorFrom(c), &q)
		if err != nil {
			return nil, err
		}
		return listData(page), nil
	})
}

// Get returns an order with its items.
//
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  Response
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.orders.Get(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, order)
}

// Create places an order and reserves its stock.
//
// @Summary      Create order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      schema.OrderForm  true  "Order"
// @Success      201   {object}  Response
// @Failure      409   {object}  Response
// @Failure      422   {object}  Response
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var form schema.OrderForm
	if err := bindBody(c, &form); err != nil {
		return err
	}
	order, err := h.orders.Create(c.Request().Context(), actorFrom(c), &form)
	if err != nil {
		return err
	}
	return done(c, http.StatusCreated, "Pedido creado correctamente", order)
}

// UpdateStatus moves an order through its lifecycle.
//
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Order ID"
// @Param        body  body      schema.OrderStatusForm  true  "Status"
// @Success      200   {object}  Response
// @Failure      404   {object}  Response
// @Failure      409   {object}  Response
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var form schema.OrderStatusForm
	if err := bindBody(c, &form); err != nil {
		return err
	}
	order, err := h.orders.UpdateStatus(c.Request().Context(), actorFrom(c), c.Param("id"), &form)
	if err != nil {
		return err
	}
	return done(c, http.StatusOK, "Estado del pedido actualizado", order)
}

// Delete removes a pending or cancelled order. Requires ?confirm=true.
//
// @Summary      Delete order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Order ID"
// @Param        confirm  query     bool    true  "Must be true"
// @Success      200      {object}  Response
// @Failure      404      {object}  Response
// @Failure      409      {object}  Response
// @Failure      428      {object}  Response
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	if err := requireConfirmation(c); err != nil {
		return err
	}
	if err := h.orders.Delete(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return err
	}
	return done(c, http.StatusOK, "Pedido eliminado correctamente", nil)
}
