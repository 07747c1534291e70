package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-backend/internal/core/ports"
)

// AppointmentHandler handles HTTP requests for the appointment lifecycle.
type AppointmentHandler struct {
	service ports.AppointmentService
}

func NewAppointmentHandler(service ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// Book handles POST /api/appointments.
//
// @Summary      Book an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        body  body      bookAppointmentRequest  true  "Booking details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /api/appointments [post]
func (h *AppointmentHandler) Book(c echo.Context) error {
	var req bookAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	appt, err := h.service.Book(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "appointment booked successfully", toAppointmentResponse(appt))
}

// Get handles GET /api/appointments/:id.
//
// @Summary      Get an appointment by id
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /api/appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	appt, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "appointment retrieved", toAppointmentResponse(appt))
}

// List handles GET /api/appointments.
//
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        status      query     string  false  "Filter by status"
// @Param        date_from   query     string  false  "Inclusive lower date bound (YYYY-MM-DD)"
// @Param        date_to     query     string  false  "Inclusive upper date bound (YYYY-MM-DD)"
// @Param        search      query     string  false  "Partial match on name, email or phone"
// @Param        sort_by     query     string  false  "Sort key (date, created_at, name, status)"
// @Param        sort_order  query     string  false  "asc or desc"
// @Param        page        query     int     false  "Page number (1-based)"
// @Param        limit       query     int     false  "Rows per page"
// @Success      200         {object}  envelope
// @Router       /api/appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListAppointmentsInput{
		Status:    c.QueryParam("status"),
		DateFrom:  c.QueryParam("date_from"),
		DateTo:    c.QueryParam("date_to"),
		Search:    c.QueryParam("search"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "appointments retrieved", appointmentListResponse{
		Appointments: toAppointmentList(result.Items),
		Pagination: paginationResponse{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	})
}

// ListToday handles GET /api/appointments/today.
//
// @Summary      List today's appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /api/appointments/today [get]
func (h *AppointmentHandler) ListToday(c echo.Context) error {
	items, err := h.service.ListToday(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "appointments retrieved", map[string]any{
		"appointments": toAppointmentList(items),
	})
}

// Availability handles GET /api/appointments/availability.
//
// @Summary      List reserved time slots for a date
// @Tags         appointments
// @Produce      json
// @Param        date  query     string  true  "Calendar date (YYYY-MM-DD)"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Router       /api/appointments/availability [get]
func (h *AppointmentHandler) Availability(c echo.Context) error {
	date := c.QueryParam("date")
	slots, err := h.service.BookedSlots(c.Request().Context(), date)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "booked slots retrieved", bookedSlotsResponse{Date: date, Slots: slots})
}

// UpdateStatus handles PUT /api/appointments/:id/status.
//
// @Summary      Update appointment status
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Appointment id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Failure      422   {object}  map[string]any
// @Router       /api/appointments/{id}/status [put]
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	appt, err := h.service.SetStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "appointment status updated", toAppointmentResponse(appt))
}

// Stats handles GET /api/appointments/stats.
//
// @Summary      Appointment dashboard counters
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /api/appointments/stats [get]
func (h *AppointmentHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "statistics retrieved", stats)
}
