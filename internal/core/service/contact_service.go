package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-backend/internal/core/domain"
	"github.com/clinichq/clinic-backend/internal/core/ports"
)

// ContactService implements the public contact form and the admin read paths.
type ContactService struct {
	repo   ports.ContactRepository
	logger zerolog.Logger
}

func NewContactService(repo ports.ContactRepository, logger zerolog.Logger) *ContactService {
	return &ContactService{repo: repo, logger: logger}
}

func (s *ContactService) Create(ctx context.Context, input ports.CreateContactInput) (*domain.Contact, error) {
	verrs := domain.ValidationErrors{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		verrs["name"] = "name is required"
	}
	email := strings.TrimSpace(input.Email)
	switch {
	case email == "":
		verrs["email"] = "email is required"
	case !emailPattern.MatchString(email):
		verrs["email"] = "invalid email format"
	}
	if strings.TrimSpace(input.Message) == "" {
		verrs["message"] = "message is required"
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	now := time.Now().UTC()
	contact := &domain.Contact{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.ToLower(email),
		Phone:     strings.TrimSpace(input.Phone),
		Subject:   strings.TrimSpace(input.Subject),
		Message:   strings.TrimSpace(input.Message),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		s.logger.Error().Err(err).Msg("failed to create contact message")
		return nil, err
	}

	s.logger.Info().Str("contact_id", contact.ID).Msg("contact message received")
	return contact, nil
}

func (s *ContactService) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ContactService) MarkRead(ctx context.Context, id string) (*domain.Contact, error) {
	return s.repo.MarkRead(ctx, id)
}

func (s *ContactService) List(ctx context.Context, input ports.ListContactsInput) (*ports.ListContactsResult, error) {
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

	items, total, err := s.repo.List(ctx, ports.ListContactsFilter{
		Unread: input.Unread,
		Search: input.Search,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListContactsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *ContactService) Stats(ctx context.Context) (*ports.ContactStats, error) {
	return s.repo.Stats(ctx, time.Now().Format(dateLayout))
}
