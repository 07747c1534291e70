package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinichq/clinic-backend/internal/core/domain"
	"github.com/clinichq/clinic-backend/internal/core/ports"
)

type stubAdminRepo struct {
	admins      map[string]*domain.Admin // keyed by id
	lastLoginID string
}

func newStubAdminRepo() *stubAdminRepo {
	return &stubAdminRepo{admins: make(map[string]*domain.Admin)}
}

func cloneAdmin(a *domain.Admin) *domain.Admin {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAdminRepo) FindByEmail(_ context.Context, email string) (*domain.Admin, error) {
	for _, a := range r.admins {
		if a.Email == email {
			return cloneAdmin(a), nil
		}
	}
	return nil, domain.ErrAdminNotFound
}

func (r *stubAdminRepo) FindByID(_ context.Context, id string) (*domain.Admin, error) {
	a, ok := r.admins[id]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	return cloneAdmin(a), nil
}

func (r *stubAdminRepo) Create(_ context.Context, admin *domain.Admin) error {
	if _, err := r.FindByEmail(context.Background(), admin.Email); err == nil {
		return domain.ErrAdminExists
	}
	r.admins[admin.ID] = cloneAdmin(admin)
	return nil
}

func (r *stubAdminRepo) Update(_ context.Context, id string, patch ports.AdminPatch) (*domain.Admin, error) {
	a, ok := r.admins[id]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	if patch.Name != "" {
		a.Name = patch.Name
	}
	if patch.PasswordHash != "" {
		a.PasswordHash = patch.PasswordHash
	}
	return cloneAdmin(a), nil
}

func (r *stubAdminRepo) TouchLastLogin(_ context.Context, id string) error {
	r.lastLoginID = id
	return nil
}

func seedAdmin(t *testing.T, repo *stubAdminRepo, password string, active bool) *domain.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admin := &domain.Admin{
		ID:           "admin_1",
		Email:        "doc@clinic.example",
		PasswordHash: string(hash),
		Name:         "Dr. Rao",
		Role:         domain.RoleAdmin,
		IsActive:     active,
	}
	if err := repo.Create(context.Background(), admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return admin
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubAdminRepo()
	seedAdmin(t, repo, "s3cret", true)
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	token, admin, err := svc.Login(context.Background(), "DOC@clinic.example", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if admin.Email != "doc@clinic.example" {
		t.Fatalf("unexpected admin: %v", admin.Email)
	}
	if repo.lastLoginID != "admin_1" {
		t.Fatalf("expected last login to be touched")
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	repo := newStubAdminRepo()
	seedAdmin(t, repo, "s3cret", true)
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "doc@clinic.example", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	// Unknown accounts get the same error as bad passwords.
	if _, _, err := svc.Login(context.Background(), "ghost@clinic.example", "s3cret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty input, got %v", err)
	}
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	repo := newStubAdminRepo()
	seedAdmin(t, repo, "s3cret", false)
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "doc@clinic.example", "s3cret"); !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	repo := newStubAdminRepo()
	admin := seedAdmin(t, repo, "s3cret", true)
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	token, err := svc.IssueToken(admin)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Email != admin.Email || claims.Role != admin.Role {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt) {
		t.Fatalf("expiry must follow issuance: %+v", claims)
	}
}

func TestAuthService_ValidateToken_Expired(t *testing.T) {
	repo := newStubAdminRepo()
	admin := seedAdmin(t, repo, "s3cret", true)
	svc := NewAuthService(repo, "secret", time.Nanosecond, zerolog.Nop())

	token, err := svc.IssueToken(admin)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}
	time.Sleep(1100 * time.Millisecond) // exp has one-second resolution

	if _, err := svc.ValidateToken(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	repo := newStubAdminRepo()
	admin := seedAdmin(t, repo, "s3cret", true)

	issuer := NewAuthService(repo, "secret-a", time.Hour, zerolog.Nop())
	verifier := NewAuthService(repo, "secret-b", time.Hour, zerolog.Nop())

	token, err := issuer.IssueToken(admin)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}
	if _, err := verifier.ValidateToken(token); !errors.Is(err, domain.ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestAuthService_ValidateToken_Malformed(t *testing.T) {
	repo := newStubAdminRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	if _, err := svc.ValidateToken("not.a.token"); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	repo := newStubAdminRepo()
	seedAdmin(t, repo, "s3cret", true)
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	// Password change with wrong current password is rejected.
	_, err := svc.UpdateProfile(context.Background(), "admin_1", ports.UpdateProfileInput{
		CurrentPassword: "wrong",
		NewPassword:     "newpass",
	})
	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if _, ok := verrs["current_password"]; !ok {
		t.Fatalf("expected current_password error, got %v", verrs)
	}

	// Valid name + password change.
	updated, err := svc.UpdateProfile(context.Background(), "admin_1", ports.UpdateProfileInput{
		Name:            "Dr. R. Rao",
		CurrentPassword: "s3cret",
		NewPassword:     "newpass",
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Name != "Dr. R. Rao" {
		t.Fatalf("name not updated: %s", updated.Name)
	}
	if bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newpass")) != nil {
		t.Fatalf("password hash not rotated")
	}

	// No changes requested returns the current record untouched.
	same, err := svc.UpdateProfile(context.Background(), "admin_1", ports.UpdateProfileInput{})
	if err != nil {
		t.Fatalf("noop UpdateProfile returned error: %v", err)
	}
	if same.Name != "Dr. R. Rao" {
		t.Fatalf("unexpected mutation: %s", same.Name)
	}
}
