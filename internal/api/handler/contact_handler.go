package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-backend/internal/core/domain"
	"github.com/clinichq/clinic-backend/internal/core/ports"
)

// ContactHandler handles contact form submissions and their admin views.
type ContactHandler struct {
	service ports.ContactService
}

func NewContactHandler(service ports.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

type createContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type contactResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

func toContactResponse(m *domain.Contact) contactResponse {
	return contactResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Subject:   m.Subject,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /api/contacts.
//
// @Summary      Submit a contact form message
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      createContactRequest  true  "Message"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Router       /api/contacts [post]
func (h *ContactHandler) Create(c echo.Context) error {
	var req createContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	msg, err := h.service.Create(c.Request().Context(), ports.CreateContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "message received", toContactResponse(msg))
}

// List handles GET /api/contacts.
//
// @Summary      List contact messages
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        unread  query     bool    false  "Only unread messages"
// @Param        search  query     string  false  "Partial match on name, email or subject"
// @Param        page    query     int     false  "Page number (1-based)"
// @Param        limit   query     int     false  "Rows per page"
// @Success      200     {object}  envelope
// @Router       /api/contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	unread, _ := strconv.ParseBool(c.QueryParam("unread"))

	result, err := h.service.List(c.Request().Context(), ports.ListContactsInput{
		Unread: unread,
		Search: c.QueryParam("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	items := make([]contactResponse, 0, len(result.Items))
	for _, m := range result.Items {
		items = append(items, toContactResponse(m))
	}
	return respond(c, http.StatusOK, "messages retrieved", map[string]any{
		"contacts": items,
		"pagination": paginationResponse{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	})
}

// Get handles GET /api/contacts/:id.
//
// @Summary      Get a contact message
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /api/contacts/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	msg, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "message retrieved", toContactResponse(msg))
}

// MarkRead handles PUT /api/contacts/:id/read.
//
// @Summary      Mark a contact message as read
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /api/contacts/{id}/read [put]
func (h *ContactHandler) MarkRead(c echo.Context) error {
	msg, err := h.service.MarkRead(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "message marked as read", toContactResponse(msg))
}

// Stats handles GET /api/contacts/stats.
//
// @Summary      Contact message counters
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /api/contacts/stats [get]
func (h *ContactHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "statistics retrieved", stats)
}
