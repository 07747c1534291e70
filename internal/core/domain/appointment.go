package domain

import (
	"errors"
	"time"
)

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// validStatuses is the closed set of states accepted by status mutations.
var validStatuses = map[AppointmentStatus]struct{}{
	StatusPending:   {},
	StatusConfirmed: {},
	StatusCancelled: {},
	StatusCompleted: {},
}

// terminalStatuses are states that admit no further transitions. Setting the
// same status again is allowed (idempotent no-op), leaving them is not.
var terminalStatuses = map[AppointmentStatus]struct{}{
	StatusCancelled: {},
	StatusCompleted: {},
}

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotUnavailable     = errors.New("time slot is not available")
	ErrInvalidStatus       = errors.New("invalid appointment status")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrAlreadyPaid         = errors.New("appointment is already paid for")
	ErrNotConfirmable      = errors.New("appointment must be confirmed before payment")
	ErrInvalidSignature    = errors.New("invalid payment signature")
	ErrGateway             = errors.New("payment gateway error")
)

// IsValid reports whether s belongs to the accepted status set.
func (s AppointmentStatus) IsValid() bool {
	_, ok := validStatuses[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Terminal states only accept themselves.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if !next.IsValid() {
		return false
	}
	if _, terminal := terminalStatuses[s]; terminal {
		return s == next
	}
	return true
}

// Appointment is the core aggregate root: a reserved (date, time) slot with
// patient contact details and payment state.
type Appointment struct {
	ID              string            `json:"id" bson:"_id"`
	PatientName     string            `json:"patient_name" bson:"patient_name"`
	PatientEmail    string            `json:"patient_email" bson:"patient_email"`
	PatientPhone    string            `json:"patient_phone" bson:"patient_phone"`
	ServiceType     string            `json:"service_type" bson:"service_type"`
	Date            string            `json:"date" bson:"date"` // YYYY-MM-DD
	Time            string            `json:"time" bson:"time"` // slot label, e.g. "10:30 AM"
	Notes           string            `json:"notes,omitempty" bson:"notes,omitempty"`
	Amount          float64           `json:"amount" bson:"amount"`
	ConsultationFee float64           `json:"consultation_fee" bson:"consultation_fee"`
	Status          AppointmentStatus `json:"status" bson:"status"`
	IsPaid          bool              `json:"is_paid" bson:"is_paid"`
	PaymentID       string            `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
	OrderID         string            `json:"order_id,omitempty" bson:"order_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" bson:"updated_at"`
}
