package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-backend/internal/api/metrics"
	"github.com/clinichq/clinic-backend/internal/core/domain"
	"github.com/clinichq/clinic-backend/internal/core/ports"
)

const (
	dateLayout = "2006-01-02"

	defaultAmount          = 800.00
	defaultConsultationFee = 500.00

	defaultPageLimit = 20
	maxPageLimit     = 100

	maxStatusRetries = 3
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-\s()]{10,20}$`)
)

// sortKeys whitelists the sortable columns for the admin list.
var sortKeys = map[string]string{
	"date":       "date",
	"created_at": "created_at",
	"status":     "status",
	"name":       "patient_name",
}

// AppointmentService implements booking, admin status mutations and the
// supporting read paths.
type AppointmentService struct {
	repo   ports.AppointmentRepository
	logger zerolog.Logger
}

func NewAppointmentService(repo ports.AppointmentRepository, logger zerolog.Logger) *AppointmentService {
	return &AppointmentService{repo: repo, logger: logger}
}

// Book validates a public booking request and atomically reserves the slot.
// Slot exclusivity is enforced by the storage layer's unique constraint, not
// by an in-process lock: concurrent requests for the same (date, time) race on
// the insert and exactly one wins.
func (s *AppointmentService) Book(ctx context.Context, input ports.BookAppointmentInput) (*domain.Appointment, error) {
	if verrs := validateBooking(input, time.Now()); len(verrs) > 0 {
		return nil, verrs
	}

	amount := input.Amount
	if amount <= 0 {
		amount = defaultAmount
	}
	fee := input.ConsultationFee
	if fee <= 0 {
		fee = defaultConsultationFee
	}

	now := time.Now().UTC()
	appt := &domain.Appointment{
		ID:              uuid.NewString(),
		PatientName:     strings.TrimSpace(input.Name),
		PatientEmail:    strings.ToLower(strings.TrimSpace(input.Email)),
		PatientPhone:    strings.TrimSpace(input.Phone),
		ServiceType:     input.Service,
		Date:            input.Date,
		Time:            input.Time,
		Notes:           input.Notes,
		Amount:          amount,
		ConsultationFee: fee,
		Status:          domain.StatusPending,
		IsPaid:          false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		if errors.Is(err, domain.ErrSlotUnavailable) {
			metrics.SlotConflictsTotal.Inc()
			s.logger.Info().Str("date", input.Date).Str("time", input.Time).Msg("slot conflict")
			return nil, err
		}
		s.logger.Error().Err(err).Msg("failed to create appointment")
		return nil, err
	}

	metrics.BookingsCreatedTotal.WithLabelValues(appt.ServiceType).Inc()
	s.logger.Info().
		Str("appointment_id", appt.ID).
		Str("date", appt.Date).
		Str("time", appt.Time).
		Msg("appointment booked")

	return appt, nil
}

// validateBooking aggregates every failing field instead of short-circuiting.
func validateBooking(input ports.BookAppointmentInput, now time.Time) domain.ValidationErrors {
	verrs := domain.ValidationErrors{}

	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		verrs["name"] = "name is required"
	case len(name) < 2:
		verrs["name"] = "name must be at least 2 characters"
	}

	email := strings.TrimSpace(input.Email)
	switch {
	case email == "":
		verrs["email"] = "email is required"
	case !emailPattern.MatchString(email):
		verrs["email"] = "invalid email format"
	}

	phone := strings.TrimSpace(input.Phone)
	switch {
	case phone == "":
		verrs["phone"] = "phone is required"
	case !phonePattern.MatchString(phone):
		verrs["phone"] = "invalid phone number"
	}

	if strings.TrimSpace(input.Service) == "" {
		verrs["service"] = "service is required"
	}

	if input.Date == "" {
		verrs["date"] = "date is required"
	} else if selected, err := time.ParseInLocation(dateLayout, input.Date, now.Location()); err != nil {
		verrs["date"] = "invalid date format (YYYY-MM-DD required)"
	} else {
		tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
		if selected.Before(tomorrow) {
			verrs["date"] = "date must be at least tomorrow"
		} else if selected.After(now.AddDate(0, 3, 0)) {
			verrs["date"] = "date cannot be more than 3 months in advance"
		}
	}

	if strings.TrimSpace(input.Time) == "" {
		verrs["time"] = "time is required"
	}

	return verrs
}

// SetStatus applies an admin status mutation. Terminal states (cancelled,
// completed) admit no transition except re-setting the same status.
func (s *AppointmentService) SetStatus(ctx context.Context, id string, status string) (*domain.Appointment, error) {
	next := domain.AppointmentStatus(status)
	if !next.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	var current, updated *domain.Appointment
	for attempt := 0; ; attempt++ {
		var err error
		current, err = s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if !current.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, next)
		}

		// The write is conditional on the status just observed. A miss means
		// a concurrent writer moved the record in between; re-read so the
		// transition check runs against the fresh status.
		updated, err = s.repo.UpdateStatus(ctx, id, current.Status, next)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrAppointmentNotFound) {
			return nil, err
		}
		if attempt >= maxStatusRetries {
			return nil, fmt.Errorf("%w: concurrent update on %s", domain.ErrInvalidTransition, id)
		}
	}

	s.logger.Info().
		Str("appointment_id", id).
		Str("from", string(current.Status)).
		Str("to", string(next)).
		Msg("appointment status updated")

	return updated, nil
}

func (s *AppointmentService) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AppointmentService) List(ctx context.Context, input ports.ListAppointmentsInput) (*ports.ListAppointmentsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	sortBy, ok := sortKeys[input.SortBy]
	if !ok {
		sortBy = "date"
	}
	sortOrder := strings.ToLower(input.SortOrder)
	if sortOrder != "asc" {
		sortOrder = "desc"
	}

	items, total, err := s.repo.List(ctx, ports.ListAppointmentsFilter{
		Status:    input.Status,
		DateFrom:  input.DateFrom,
		DateTo:    input.DateTo,
		Search:    input.Search,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListAppointmentsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *AppointmentService) ListToday(ctx context.Context) ([]*domain.Appointment, error) {
	return s.repo.FindByDate(ctx, time.Now().Format(dateLayout))
}

func (s *AppointmentService) BookedSlots(ctx context.Context, date string) ([]string, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, domain.ValidationErrors{"date": "invalid date format (YYYY-MM-DD required)"}
	}
	return s.repo.BookedSlots(ctx, date)
}

func (s *AppointmentService) Stats(ctx context.Context) (*ports.AppointmentStats, error) {
	now := time.Now()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	return s.repo.Stats(ctx, today, yesterday)
}
