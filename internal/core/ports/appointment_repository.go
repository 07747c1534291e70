package ports

import (
	"context"

	"github.com/clinichq/clinic-backend/internal/core/domain"
)

// ListAppointmentsFilter carries all query parameters for listing appointments.
type ListAppointmentsFilter struct {
	Status    string // optional: filter by appointment status
	DateFrom  string // optional: date >= DateFrom (YYYY-MM-DD)
	DateTo    string // optional: date <= DateTo (YYYY-MM-DD)
	Search    string // optional: partial match on patient name, email or phone
	SortBy    string // whitelisted sort key; defaults to "date"
	SortOrder string // "asc" or "desc"; defaults to "desc"
	Page      int    // 1-based
	Limit     int    // rows per page (capped by the service)
}

// AppointmentStats summarises appointment counts for the dashboard.
type AppointmentStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Cancelled int64 `json:"cancelled"`
	Completed int64 `json:"completed"`
	Today     int64 `json:"today"`
	Yesterday int64 `json:"yesterday"`
	Paid      int64 `json:"paid"`
	Unpaid    int64 `json:"unpaid"`
}

// AppointmentRepository defines persistence operations for appointments.
type AppointmentRepository interface {
	// Create inserts a new appointment. The storage layer enforces the slot
	// invariant: an insert that would produce a second pending/confirmed
	// appointment on the same (date, time) fails with ErrSlotUnavailable.
	Create(ctx context.Context, a *domain.Appointment) error
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	// UpdateStatus sets status and updated_at in one conditional write that
	// only matches while the record still holds the from status. A record
	// moved by a concurrent writer yields ErrAppointmentNotFound so the
	// caller can re-read and re-check the transition.
	UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus) (*domain.Appointment, error)
	// SetOrder records the gateway order reference and amount on an unpaid
	// appointment.
	SetOrder(ctx context.Context, id, orderID string, amount float64) (*domain.Appointment, error)
	// MarkPaid atomically sets is_paid=true, records the payment reference and
	// forces status=confirmed. It is the only write path that flips is_paid.
	MarkPaid(ctx context.Context, id, paymentID string) (*domain.Appointment, error)
	// List returns a page of appointments matching filter and the total count
	// over the filtered set (computed before pagination).
	List(ctx context.Context, filter ListAppointmentsFilter) ([]*domain.Appointment, int64, error)
	// FindByDate returns all appointments on a calendar date ordered by time.
	FindByDate(ctx context.Context, date string) ([]*domain.Appointment, error)
	// BookedSlots returns the time labels already reserved (pending/confirmed)
	// on a date.
	BookedSlots(ctx context.Context, date string) ([]string, error)
	Stats(ctx context.Context, today, yesterday string) (*AppointmentStats, error)
}
