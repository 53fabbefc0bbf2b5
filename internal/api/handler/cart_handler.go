package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusunify/campus-api/internal/core/ports"
)

// CartHandler manages the acting student's cart.
type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// Get returns the cart resolved to full events.
//
// @Summary      Get cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /api/v1/cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	events, err := h.service.Get(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, events)
}

// Add puts an event in the cart.
//
// @Summary      Add event to cart
// @Tags         cart
// @Param        eventId  path  string  true  "Event id"
// @Success      201  {object}  envelope
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/v1/cart/{eventId} [post]
func (h *CartHandler) Add(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Add(c.Request().Context(), user.ID, c.Param("eventId")); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, nil)
}

// Remove takes an event out of the cart.
//
// @Summary      Remove event from cart
// @Tags         cart
// @Param        eventId  path  string  true  "Event id"
// @Success      204
// @Router       /api/v1/cart/{eventId} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Remove(c.Request().Context(), user.ID, c.Param("eventId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Clear empties the cart.
//
// @Summary      Clear cart
// @Tags         cart
// @Success      204
// @Router       /api/v1/cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Clear(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
