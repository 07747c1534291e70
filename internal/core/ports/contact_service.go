package ports

import (
	"context"

	"github.com/clinichq/clinic-backend/internal/core/domain"
)

// CreateContactInput carries a public contact form submission.
type CreateContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// ListContactsInput carries parameters for the admin contact list.
type ListContactsInput struct {
	Unread bool
	Search string
	Page   int
	Limit  int
}

// ListContactsResult is returned by List.
type ListContactsResult struct {
	Items      []*domain.Contact
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ContactService defines contact message operations.
type ContactService interface {
	Create(ctx context.Context, input CreateContactInput) (*domain.Contact, error)
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	MarkRead(ctx context.Context, id string) (*domain.Contact, error)
	List(ctx context.Context, input ListContactsInput) (*ListContactsResult, error)
	Stats(ctx context.Context) (*ContactStats, error)
}
