package handler

import (
	"time"

	"github.com/clinichq/clinic-backend/internal/core/domain"
	"github.com/clinichq/clinic-backend/internal/core/ports"
)

type bookAppointmentRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Service         string  `json:"service"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Notes           string  `json:"notes"`
	Amount          float64 `json:"amount"`
	ConsultationFee float64 `json:"consultation_fee"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type appointmentResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Service         string  `json:"service"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Notes           string  `json:"notes,omitempty"`
	Amount          float64 `json:"amount"`
	ConsultationFee float64 `json:"consultation_fee"`
	Status          string  `json:"status"`
	IsPaid          bool    `json:"is_paid"`
	PaymentID       string  `json:"payment_id,omitempty"`
	OrderID         string  `json:"order_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type appointmentListResponse struct {
	Appointments []appointmentResponse `json:"appointments"`
	Pagination   paginationResponse    `json:"pagination"`
}

type paginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type bookedSlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"booked_slots"`
}

func toAppointmentResponse(a *domain.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:              a.ID,
		Name:            a.PatientName,
		Email:           a.PatientEmail,
		Phone:           a.PatientPhone,
		Service:         a.ServiceType,
		Date:            a.Date,
		Time:            a.Time,
		Notes:           a.Notes,
		Amount:          a.Amount,
		ConsultationFee: a.ConsultationFee,
		Status:          string(a.Status),
		IsPaid:          a.IsPaid,
		PaymentID:       a.PaymentID,
		OrderID:         a.OrderID,
		CreatedAt:       a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toAppointmentList(items []*domain.Appointment) []appointmentResponse {
	out := make([]appointmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAppointmentResponse(a))
	}
	return out
}

func (r bookAppointmentRequest) toInput() ports.BookAppointmentInput {
	return ports.BookAppointmentInput{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Service:         r.Service,
		Date:            r.Date,
		Time:            r.Time,
		Notes:           r.Notes,
		Amount:          r.Amount,
		ConsultationFee: r.ConsultationFee,
	}
}
