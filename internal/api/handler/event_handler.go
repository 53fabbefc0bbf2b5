package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/campusunify/campus-api/internal/api/metrics"
	"github.com/campusunify/campus-api/internal/core/ports"
)

// EventHandler handles event, event-day and booking-roster requests.
type EventHandler struct {
	service ports.EventService
}

func NewEventHandler(service ports.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// Latest returns the next upcoming events. Public, personalization only.
//
// @Summary      List upcoming events
// @Tags         events
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /api/v1/events/latest [get]
func (h *EventHandler) Latest(c echo.Context) error {
	events, err := h.service.Latest(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, events)
}

// List returns a page of events. Club callers see only their own.
//
// @Summary      List events
// @Tags         events
// @Produce      json
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size"
// @Param        sort   query     string  false  "date or -date"
// @Success      200    {object}  listEnvelope
// @Router       /api/v1/events [get]
func (h *EventHandler) List(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	filter := ports.ListEventsFilter{Sort: c.QueryParam("sort")}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	events, total, err := h.service.List(c.Request().Context(), user, filter)
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, len(events), total, events)
}

// Get returns a single event.
//
// @Summary      Get event by id
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	event, err := h.service.Get(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, event)
}

// Create creates an event owned by the acting club.
//
// @Summary      Create event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        body  body      createEventRequest  true  "Event details"
// @Success      201   {object}  envelope
// @Failure      403   {object}  errorResponse
// @Router       /api/v1/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req createEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.service.Create(c.Request().Context(), user, ports.EventInput{
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		Venue:       req.Venue,
		CoverImage:  req.CoverImage,
		Charge:      req.Charge,
	})
	if err != nil {
		return err
	}

	metrics.EventsCreatedTotal.Inc()
	return respond(c, http.StatusCreated, event)
}

// Update applies a partial update to an owned event.
//
// @Summary      Update event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Event id"
// @Param        body  body      updateEventRequest  true  "Fields to change"
// @Success      200   {object}  envelope
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/events/{id} [patch]
func (h *EventHandler) Update(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req updateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.service.Update(c.Request().Context(), user, c.Param("id"), ports.EventInput{
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		Venue:       req.Venue,
		CoverImage:  req.CoverImage,
		Charge:      req.Charge,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, event)
}

// Delete removes an owned event and its roster.
//
// @Summary      Delete event
// @Tags         events
// @Param        id  path  string  true  "Event id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListDays returns all days of an event.
//
// @Summary      List event days
// @Tags         events
// @Produce      json
// @Param        eventId  path      string  true  "Event id"
// @Success      200      {object}  envelope
// @Router       /api/v1/events/{eventId}/days [get]
func (h *EventHandler) ListDays(c echo.Context) error {
	days, err := h.service.ListDays(c.Request().Context(), c.Param("eventId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, days)
}

// GetDay returns a single event day.
//
// @Summary      Get event day
// @Tags         events
// @Produce      json
// @Param        eventId  path      string  true  "Event id"
// @Param        dayId    path      string  true  "Day id"
// @Success      200      {object}  envelope
// @Failure      404      {object}  errorResponse
// @Router       /api/v1/events/{eventId}/days/{dayId} [get]
func (h *EventHandler) GetDay(c echo.Context) error {
	day, err := h.service.GetDay(c.Request().Context(), c.Param("eventId"), c.Param("dayId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, day)
}

// CreateDay appends a day to an owned event.
//
// @Summary      Add event day
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventId  path      string                 true  "Event id"
// @Param        body     body      createEventDayRequest  true  "Day details"
// @Success      201      {object}  envelope
// @Failure      403      {object}  errorResponse
// @Router       /api/v1/events/{eventId}/days [post]
func (h *EventHandler) CreateDay(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req createEventDayRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.service.CreateDay(c.Request().Context(), user, c.Param("eventId"), ports.EventDayInput{
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		Venue:       req.Venue,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, event)
}

// UpdateDay applies a partial update to a day of an owned event.
//
// @Summary      Update event day
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventId  path      string                 true  "Event id"
// @Param        dayId    path      string                 true  "Day id"
// @Param        body     body      updateEventDayRequest  true  "Fields to change"
// @Success      200      {object}  envelope
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/v1/events/{eventId}/days/{dayId} [patch]
func (h *EventHandler) UpdateDay(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req updateEventDayRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.service.UpdateDay(c.Request().Context(), user, c.Param("eventId"), c.Param("dayId"), ports.EventDayInput{
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		Venue:       req.Venue,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, event)
}

// DeleteDay removes a day from an owned event.
//
// @Summary      Delete event day
// @Tags         events
// @Param        eventId  path  string  true  "Event id"
// @Param        dayId    path  string  true  "Day id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/events/{eventId}/days/{dayId} [delete]
func (h *EventHandler) DeleteDay(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteDay(c.Request().Context(), user, c.Param("eventId"), c.Param("dayId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Registrations lists the booking roster for an owned event.
//
// @Summary      List event registrations
// @Tags         bookings
// @Produce      json
// @Param        eventId  path      string  true  "Event id"
// @Success      200      {object}  envelope
// @Failure      403      {object}  errorResponse
// @Router       /api/v1/bookings/{eventId} [get]
func (h *EventHandler) Registrations(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	booking, err := h.service.Registrations(c.Request().Context(), user, c.Param("eventId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, booking)
}
