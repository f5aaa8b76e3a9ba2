package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PaymentHandler struct {
	payments ports.PaymentService
	views    *Views
}

func NewPaymentHandler(payments ports.PaymentService, views *Views) *PaymentHandler {
	return &PaymentHandler{payments: payments, views: views}
}

// List returns one page of payments.
//
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page (1-based)"
// @Param        limit      query     int     false  "Rows per page (max 100)"
// @Param        sort       query     string  false  "Sort field"
// @Param        order      query     string  false  "asc or desc"
// @Param        search     query     string  false  "Reference or notes"
// @Param        client_id  query     string  false  "Client ID"
// @Param        status     query     string  false  "pending, completed, failed or refunded"
// @Param        method     query     string  false  "cash, transfer, card or check"
// @Param        from       query     string  false  "First day (YYYY-MM-DD)"
// @Param        to         query     string  false  "Last day (YYYY-MM-DD)"
// @Success      200        {object}  Response
// @Router       /api/payments [get]
func (h *PaymentHandler) List(c echo.Context) error {
	var q schema.PaymentQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	return h.views.list(c, ports.PaymentsPath, func(ctx context.Context) (any, error) {
		page, err := h.payments.List(ctx, actorFrom(c), &q)
		if err != nil {
			return nil, err
		}
		return listData(page), nil
	})
}

// Stats aggregates the payments matching the list filters.
//
// @Summary      Payment statistics
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        client_id  query     string  false  "Client ID"
// @Param        from       query     string  false  "First day (YYYY-MM-DD)"
// @Param        to         query     string  false  "Last day (YYYY-MM-DD)"
// @Success      200        {object}  Response
// @Router       /api/payments/stats [get]
func (h *PaymentHandler) Stats(c echo.Context) error {
	var q schema.PaymentQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	return h.views.list(c, ports.PaymentsPath+"/stats", func(ctx context.Context) (any, error) {
		return h.payments.Stats(ctx, actorFrom(c), &q)
	})
}

// Export downloads the payments matching the list filters as a workbook.
//
// @Summary      Export payments
// @Tags         payments
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        status  query  string  false  "pending, completed, failed or refunded"
// @Param        from    query  string  false  "First day (YYYY-MM-DD)"
// @Param        to      query  string  false  "Last day (YYYY-MM-DD)"
// @Success      200     {file}  file
// @Router       /api/payments/export [get]
func (h *PaymentHandler) Export(c echo.Context) error {
	var q schema.PaymentQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	data, err := h.payments.Export(c.Request().Context(), actorFrom(c), &q)
	if err != nil {
		return err
	}
	filename := fmt.Sprintf("pagos-%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, mimeXLSX, data)
}

// Get returns a payment.
//
// @Summary      Get payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  Response
// @Router       /api/payments/{id} [get]
func (h *PaymentHandler) Get(c echo.Context) error {
	payment, err := h.payments.Get(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, payment)
}

// Create records a payment for a client.
//
// @Summary      Create payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      schema.PaymentForm  true  "Payment"
// @Success      201   {object}  Response
// @Failure      422   {object}  Response
// @Router       /api/payments [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	var form schema.PaymentForm
	if err := bindBody(c, &form); err != nil {
		return err
	}
	payment, err := h.payments.Create(c.Request().Context(), actorFrom(c), &form)
	if err != nil {
		return err
	}
	return done(c, http.StatusCreated, "Pago registrado correctamente", payment)
}

// UpdateStatus changes the status of a payment.
//
// @Summary      Update payment status
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Payment ID"
// @Param        body  body      schema.PaymentStatusForm  true  "Status"
// @Success      200   {object}  Response
// @Failure      404   {object}  Response
// @Failure      422   {object}  Response
// @Router       /api/payments/{id}/status [patch]
func (h *PaymentHandler) UpdateStatus(c echo.Context) error {
	var form schema.PaymentStatusForm
	if err := bindBody(c, &form); err != nil {
		return err
	}
	payment, err := h.payments.UpdateStatus(c.Request().Context(), actorFrom(c), c.Param("id"), &form)
	if err != nil {
		return err
	}
	return done(c, http.StatusOK, "Estado del pago actualizado", payment)
}

// Delete removes a payment. Requires ?confirm=true.
//
// @Summary      Delete payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Payment ID"
// @Param        confirm  query     bool    true  "Must be true"
// @Success      200      {object}  Response
// @Failure      404      {object}  Response
// @Failure      428      {object}  Response
// @Router       /api/payments/{id} [delete]
func (h *PaymentHandler) Delete(c echo.Context) error {
	if err := requireConfirmation(c); err != nil {
		return err
	}
	if err := h.payments.Delete(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return err
	}
	return done(c, http.StatusOK, "Pago eliminado correctamente", nil)
}
