package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinichq/clinic-backend/internal/core/domain"
	"github.com/clinichq/clinic-backend/internal/core/ports"
)

// AuthService implements admin login, profile management and stateless token
// handling. Tokens are HS256-signed and self-contained; there is no
// revocation store, so logout is purely client-side.
type AuthService struct {
	repo      ports.AdminRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.AdminRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !admin.IsActive {
		return "", nil, domain.ErrAccountDisabled
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := s.repo.TouchLastLogin(ctx, admin.ID); err != nil {
		s.logger.Warn().Err(err).Str("admin_id", admin.ID).Msg("failed to update last login")
	}

	token, err := s.IssueToken(admin)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("admin_id", admin.ID).Str("email", admin.Email).Msg("admin logged in")
	return token, admin, nil
}

// IssueToken produces a signed credential embedding the admin identity, an
// issued-at timestamp and expiry = issued-at + TTL.
func (s *AuthService) IssueToken(admin *domain.Admin) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"admin_id": admin.ID,
		"email":    admin.Email,
		"role":     admin.Role,
		"name":     admin.Name,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a token, returning its claims. Failures
// are classified as expired, bad signature, or malformed.
func (s *AuthService) ValidateToken(token string) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenSignature
		default:
			return nil, domain.ErrTokenMalformed
		}
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenMalformed
	}

	out := &ports.TokenClaims{}
	out.AdminID, _ = claims["admin_id"].(string)
	out.Email, _ = claims["email"].(string)
	out.Role, _ = claims["role"].(string)
	out.Name, _ = claims["name"].(string)
	if iat, ok := claims["iat"].(float64); ok {
		out.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if out.AdminID == "" {
		return nil, domain.ErrTokenMalformed
	}
	return out, nil
}

func (s *AuthService) Profile(ctx context.Context, adminID string) (*domain.Admin, error) {
	return s.repo.FindByID(ctx, adminID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, adminID string, input ports.UpdateProfileInput) (*domain.Admin, error) {
	admin, err := s.repo.FindByID(ctx, adminID)
	if err != nil {
		return nil, err
	}

	verrs := domain.ValidationErrors{}
	patch := ports.AdminPatch{}

	if input.Name != "" {
		name := strings.TrimSpace(input.Name)
		switch {
		case len(name) < 2:
			verrs["name"] = "name must be at least 2 characters"
		case len(name) > 100:
			verrs["name"] = "name cannot exceed 100 characters"
		default:
			patch.Name = name
		}
	}

	if input.NewPassword != "" {
		if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.CurrentPassword)) != nil {
			verrs["current_password"] = "current password is incorrect"
		}
		if len(input.NewPassword) < 6 {
			verrs["new_password"] = "new password must be at least 6 characters"
		}
		if len(verrs) == 0 {
			hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
			if err != nil {
				return nil, err
			}
			patch.PasswordHash = string(hash)
		}
	}

	if len(verrs) > 0 {
		return nil, verrs
	}

	if patch.Name == "" && patch.PasswordHash == "" {
		return admin, nil
	}

	updated, err := s.repo.Update(ctx, adminID, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("admin_id", adminID).Msg("admin profile updated")
	return updated, nil
}
