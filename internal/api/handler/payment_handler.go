package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-backend/internal/core/ports"
)

// PaymentHandler handles HTTP requests for the payment workflow.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

type createOrderRequest struct {
	AppointmentID string  `json:"appointment_id" validate:"required"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
}

type createOrderResponse struct {
	OrderID       string `json:"order_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	KeyID         string `json:"key_id"`
	AppointmentID string `json:"appointment_id"`
	PatientName   string `json:"patient_name"`
}

type verifyPaymentRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required"`
	OrderID       string `json:"razorpay_order_id" validate:"required"`
	PaymentID     string `json:"razorpay_payment_id" validate:"required"`
	Signature     string `json:"razorpay_signature" validate:"required"`
}

type verifyPaymentResponse struct {
	AppointmentID string                    `json:"appointment_id"`
	Status        string                    `json:"status"`
	PaymentID     string                    `json:"payment_id"`
	IsPaid        bool                      `json:"is_paid"`
	PatientName   string                    `json:"patient_name"`
	Date          string                    `json:"date"`
	Details       *ports.PaymentDetailsData `json:"payment_details,omitempty"`
}

type paymentStatusResponse struct {
	AppointmentID string  `json:"appointment_id"`
	Amount        float64 `json:"amount"`
	IsPaid        bool    `json:"is_paid"`
	PaymentID     string  `json:"payment_id,omitempty"`
	Status        string  `json:"status"`
	PatientName   string  `json:"patient_name"`
	Date          string  `json:"date"`
}

func toPaymentStatusResponse(r *ports.PaymentStatusResult) paymentStatusResponse {
	return paymentStatusResponse{
		AppointmentID: r.AppointmentID,
		Amount:        r.Amount,
		IsPaid:        r.IsPaid,
		PaymentID:     r.PaymentID,
		Status:        r.Status,
		PatientName:   r.PatientName,
		Date:          r.Date,
	}
}

// CreateOrder handles POST /api/payments/order.
//
// @Summary      Create a payment order for a confirmed appointment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      createOrderRequest  true  "Order parameters"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/payments/order [post]
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.service.CreateOrder(c.Request().Context(), ports.CreateOrderInput{
		AppointmentID: req.AppointmentID,
		Amount:        req.Amount,
		Currency:      req.Currency,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "order created successfully", createOrderResponse{
		OrderID:       result.OrderID,
		Amount:        result.Amount,
		Currency:      result.Currency,
		KeyID:         result.KeyID,
		AppointmentID: result.AppointmentID,
		PatientName:   result.PatientName,
	})
}

// Verify handles POST /api/payments/verify.
//
// @Summary      Verify a payment callback signature and mark the appointment paid
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      verifyPaymentRequest  true  "Gateway callback identifiers"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/payments/verify [post]
func (h *PaymentHandler) Verify(c echo.Context) error {
	var req verifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.service.VerifyPayment(c.Request().Context(), ports.VerifyPaymentInput{
		AppointmentID: req.AppointmentID,
		OrderID:       req.OrderID,
		PaymentID:     req.PaymentID,
		Signature:     req.Signature,
	})
	if err != nil {
		return err
	}

	msg := "payment verified successfully"
	if !result.DetailsAvailable {
		msg = "payment verified; details unavailable"
	}
	return respond(c, http.StatusOK, msg, verifyPaymentResponse{
		AppointmentID: result.AppointmentID,
		Status:        result.Status,
		PaymentID:     result.PaymentID,
		IsPaid:        result.IsPaid,
		PatientName:   result.PatientName,
		Date:          result.Date,
		Details:       result.Details,
	})
}

// Details handles GET /api/payments/:id.
//
// @Summary      Get stored payment details for an appointment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /api/payments/{id} [get]
func (h *PaymentHandler) Details(c echo.Context) error {
	result, err := h.service.GetPaymentDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "payment details retrieved", toPaymentStatusResponse(result))
}

// Status handles GET /api/payments/:id/status.
//
// @Summary      Check the payment status of an appointment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /api/payments/{id}/status [get]
func (h *PaymentHandler) Status(c echo.Context) error {
	result, err := h.service.CheckPaymentStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "payment status retrieved", toPaymentStatusResponse(result))
}
