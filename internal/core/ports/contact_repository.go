package ports

import (
	"context"

	"github.com/clinichq/clinic-backend/internal/core/domain"
)

// ListContactsFilter carries query parameters for listing contact messages.
type ListContactsFilter struct {
	Unread bool   // only unread messages
	Search string // partial match on name, email or subject
	Page   int
	Limit  int
}

// ContactStats summarises contact message counts.
type ContactStats struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
	Today  int64 `json:"today"`
}

// ContactRepository defines persistence operations for contact messages.
type ContactRepository interface {
	Create(ctx context.Context, c *domain.Contact) error
	FindByID(ctx context.Context, id string) (*domain.Contact, error)
	MarkRead(ctx context.Context, id string) (*domain.Contact, error)
	List(ctx context.Context, filter ListContactsFilter) ([]*domain.Contact, int64, error)
	Stats(ctx context.Context, today string) (*ContactStats, error)
}
