package ports

import (
	"context"

	"github.com/clinichq/clinic-backend/internal/core/domain"
)

// AdminRepository defines persistence operations for admin accounts.
type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	FindByID(ctx context.Context, id string) (*domain.Admin, error)
	Create(ctx context.Context, admin *domain.Admin) error
	// Update applies the non-zero fields of patch (name, password hash) and
	// returns the refreshed record.
	Update(ctx context.Context, id string, patch AdminPatch) (*domain.Admin, error)
	TouchLastLogin(ctx context.Context, id string) error
}

// AdminPatch carries the mutable profile fields. Empty strings are ignored.
type AdminPatch struct {
	Name         string
	PasswordHash string
}
