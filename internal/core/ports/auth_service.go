package ports

import (
	"context"
	"time"

	"github.com/clinichq/clinic-backend/internal/core/domain"
)

// TokenClaims is the identity payload embedded in an auth token. Tokens are
// stateless: validity is determined purely by signature and expiry.
type TokenClaims struct {
	AdminID   string
	Email     string
	Role      string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// UpdateProfileInput carries the mutable profile fields. A password change
// requires the current password.
type UpdateProfileInput struct {
	Name            string
	CurrentPassword string
	NewPassword     string
}

// AuthService implements admin authentication and token handling.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Admin, error)
	IssueToken(admin *domain.Admin) (string, error)
	ValidateToken(token string) (*TokenClaims, error)
	Profile(ctx context.Context, adminID string) (*domain.Admin, error)
	UpdateProfile(ctx context.Context, adminID string, input UpdateProfileInput) (*domain.Admin, error)
}
