package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-backend/internal/core/domain"
)

// errorEnvelope is the canonical failure body: a stable success=false flag,
// a message, and optional structured data (aggregated field errors).
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    any    `json:"data,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Renders aggregated validation errors as structured data.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger, devMode bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			_ = c.JSON(http.StatusBadRequest, errorEnvelope{
				Error: "validation failed",
				Data:  map[string]any{"errors": verrs},
			})
			return
		}

		code, msg := resolveError(err, log, c, devMode)
		_ = c.JSON(code, errorEnvelope{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context, devMode bool) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrAppointmentNotFound),
		errors.Is(err, domain.ErrAdminNotFound),
		errors.Is(err, domain.ErrContactNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrSlotUnavailable):
		return http.StatusConflict, "selected time slot is not available"
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrNotConfirmable),
		errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrGateway):
		// Message preserved for diagnostics; not a stable contract.
		return http.StatusInternalServerError, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenSignature),
		errors.Is(err, domain.ErrTokenMalformed):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrAdminExists):
		return http.StatusConflict, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	if devMode {
		return http.StatusInternalServerError, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}
