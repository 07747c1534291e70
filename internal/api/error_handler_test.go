package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-backend/internal/core/domain"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop(), false)(err, c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec, body
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrAppointmentNotFound, http.StatusNotFound},
		{domain.ErrSlotUnavailable, http.StatusConflict},
		{domain.ErrInvalidStatus, http.StatusBadRequest},
		{fmt.Errorf("%w: cancelled -> confirmed", domain.ErrInvalidTransition), http.StatusUnprocessableEntity},
		{domain.ErrAlreadyPaid, http.StatusBadRequest},
		{domain.ErrNotConfirmable, http.StatusBadRequest},
		{domain.ErrInvalidSignature, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrTokenExpired, http.StatusUnauthorized},
		{domain.ErrAccountDisabled, http.StatusForbidden},
		{fmt.Errorf("%w: connection reset", domain.ErrGateway), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec, body := render(t, tc.err)
		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		if body["success"] != false {
			t.Fatalf("%v: expected success=false, got %v", tc.err, body)
		}
		if body["error"] == "" {
			t.Fatalf("%v: expected error message", tc.err)
		}
	}
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	verrs := domain.ValidationErrors{
		"email": "invalid email format",
		"date":  "date must be at least tomorrow",
	}
	rec, body := render(t, verrs)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected structured data, got %v", body)
	}
	fields, ok := data["errors"].(map[string]any)
	if !ok || fields["email"] != "invalid email format" || fields["date"] != "date must be at least tomorrow" {
		t.Fatalf("expected per-field errors, got %v", data)
	}
}

func TestErrorHandler_UnknownErrorRedacted(t *testing.T) {
	rec, body := render(t, errors.New("pq: secret dsn leaked"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body["error"] != "internal server error" {
		t.Fatalf("internal detail leaked: %v", body["error"])
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	rec, body := render(t, echo.NewHTTPError(http.StatusNotFound, "route not found"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body["error"] != "route not found" {
		t.Fatalf("unexpected message: %v", body["error"])
	}
}
