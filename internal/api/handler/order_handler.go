package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusunify/campus-api/internal/api/metrics"
	"github.com/campusunify/campus-api/internal/core/domain"
	"github.com/campusunify/campus-api/internal/core/ports"
)

// OrderHandler exposes checkout and payment-order tracking.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type confirmPaymentRequest struct {
	GatewayOrderID string `json:"gateway_order_id" validate:"required"`
	PaymentID      string `json:"payment_id"       validate:"required"`
	Signature      string `json:"signature"        validate:"required"`
}

// Checkout raises a gateway order for the cart contents.
//
// @Summary      Checkout cart
// @Tags         payments
// @Produce      json
// @Success      201  {object}  envelope
// @Failure      422  {object}  errorResponse
// @Router       /api/v1/payments/checkout [post]
func (h *OrderHandler) Checkout(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	order, err := h.service.Checkout(c.Request().Context(), user)
	if err != nil {
		return err
	}

	metrics.OrdersTotal.WithLabelValues(string(domain.OrderCreated)).Inc()
	return respond(c, http.StatusCreated, order)
}

// Confirm verifies the gateway signature and captures the order.
//
// @Summary      Confirm payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      confirmPaymentRequest  true  "Gateway payment proof"
// @Success      200   {object}  envelope
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/payments/confirm [post]
func (h *OrderHandler) Confirm(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req confirmPaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.service.Confirm(c.Request().Context(), user, ports.ConfirmPaymentInput{
		GatewayOrderID: req.GatewayOrderID,
		PaymentID:      req.PaymentID,
		Signature:      req.Signature,
	})
	if err != nil {
		if err == domain.ErrPaymentVerification {
			metrics.OrdersTotal.WithLabelValues(string(domain.OrderFailed)).Inc()
		}
		return err
	}

	metrics.OrdersTotal.WithLabelValues(string(domain.OrderCaptured)).Inc()
	return respond(c, http.StatusOK, order)
}

// ListMine returns the caller's orders, newest first.
//
// @Summary      List own orders
// @Tags         payments
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /api/v1/payments/orders [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListMine(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, orders)
}
