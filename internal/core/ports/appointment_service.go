package ports

import (
	"context"

	"github.com/clinichq/clinic-backend/internal/core/domain"
)

// BookAppointmentInput carries all data for a public booking request.
// Validation (aggregated per-field) is the service's responsibility.
type BookAppointmentInput struct {
	Name            string
	Email           string
	Phone           string
	Service         string
	Date            string // YYYY-MM-DD
	Time            string // slot label
	Notes           string
	Amount          float64 // 0 = clinic default
	ConsultationFee float64 // 0 = clinic default
}

// ListAppointmentsInput carries all parameters for the admin list endpoint.
type ListAppointmentsInput struct {
	Status    string
	DateFrom  string
	DateTo    string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// ListAppointmentsResult is returned by List.
type ListAppointmentsResult struct {
	Items      []*domain.Appointment
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AppointmentService defines use-case operations for the appointment lifecycle.
type AppointmentService interface {
	// Book validates the request and atomically reserves the slot.
	Book(ctx context.Context, input BookAppointmentInput) (*domain.Appointment, error)
	// SetStatus applies an admin status mutation under the state machine rules.
	SetStatus(ctx context.Context, id string, status string) (*domain.Appointment, error)
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	List(ctx context.Context, input ListAppointmentsInput) (*ListAppointmentsResult, error)
	ListToday(ctx context.Context) ([]*domain.Appointment, error)
	BookedSlots(ctx context.Context, date string) ([]string, error)
	Stats(ctx context.Context) (*AppointmentStats, error)
}
