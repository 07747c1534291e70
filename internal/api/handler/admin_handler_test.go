package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-backend/internal/api/middleware"
	"github.com/clinichq/clinic-backend/internal/core/domain"
	"github.com/clinichq/clinic-backend/internal/core/ports"
)

type stubAuthService struct {
	loginFn   func(ctx context.Context, email, password string) (string, *domain.Admin, error)
	profileFn func(ctx context.Context, adminID string) (*domain.Admin, error)
	updateFn  func(ctx context.Context, adminID string, input ports.UpdateProfileInput) (*domain.Admin, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) IssueToken(_ *domain.Admin) (string, error) { return "tok", nil }

func (s *stubAuthService) ValidateToken(_ string) (*ports.TokenClaims, error) {
	return nil, domain.ErrTokenMalformed
}

func (s *stubAuthService) Profile(ctx context.Context, adminID string) (*domain.Admin, error) {
	return s.profileFn(ctx, adminID)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, adminID string, input ports.UpdateProfileInput) (*domain.Admin, error) {
	return s.updateFn(ctx, adminID, input)
}

func sampleAdmin() *domain.Admin {
	return &domain.Admin{
		ID:       "admin_1",
		Email:    "doc@clinic.example",
		Name:     "Dr. Rao",
		Role:     domain.RoleAdmin,
		IsActive: true,
	}
}

func TestAdminHandler_Login_SetsCookie(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.Admin, error) {
			if email != "doc@clinic.example" || password != "s3cret" {
				t.Fatalf("unexpected credentials: %s", email)
			}
			return "signed-token", sampleAdmin(), nil
		},
	}
	h := NewAdminHandler(stub, time.Hour, false)

	body := strings.NewReader(`{"email":"doc@clinic.example","password":"s3cret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	data := resp["data"].(map[string]any)
	if data["token"] != "signed-token" {
		t.Fatalf("token missing from response: %v", data)
	}
	admin := data["admin"].(map[string]any)
	if admin["email"] != "doc@clinic.example" {
		t.Fatalf("unexpected admin payload: %v", admin)
	}
	if _, hasHash := admin["password_hash"]; hasHash {
		t.Fatalf("password hash must never be serialised")
	}

	cookies := rec.Result().Cookies()
	var found bool
	for _, ck := range cookies {
		if ck.Name == "admin_token" && ck.Value == "signed-token" && ck.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected HttpOnly admin_token cookie, got %v", cookies)
	}
}

func TestAdminHandler_Login_InvalidPayload(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewAdminHandler(&stubAuthService{}, time.Hour, false)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"email":"nope"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Login(c)
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestAdminHandler_Logout_ClearsCookie(t *testing.T) {
	e := echo.New()
	h := NewAdminHandler(&stubAuthService{}, time.Hour, false)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var cleared bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "admin_token" && ck.Value == "" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected auth cookie cleared")
	}
}

func TestAdminHandler_Profile(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		profileFn: func(_ context.Context, adminID string) (*domain.Admin, error) {
			if adminID != "admin_1" {
				t.Fatalf("unexpected admin id: %s", adminID)
			}
			return sampleAdmin(), nil
		},
	}
	h := NewAdminHandler(stub, time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextAdminID, "admin_1")

	if err := h.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAdminHandler_Profile_MissingClaims(t *testing.T) {
	e := echo.New()
	h := NewAdminHandler(&stubAuthService{}, time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Profile(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
