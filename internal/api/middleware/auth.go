package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-backend/internal/core/ports"
)

const (
	// ContextAdminID and friends are the keys under which authenticated
	// admin identity is stored on the request context.
	ContextAdminID    = "admin_id"
	ContextAdminEmail = "admin_email"
	ContextAdminRole  = "admin_role"
	ContextAdminName  = "admin_name"

	authCookieName = "admin_token"
)

// TokenValidator verifies a signed token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*ports.TokenClaims, error)
}

// RequireAuth rejects requests that do not carry a valid admin token.
// The token is read from the Authorization header (Bearer scheme) or,
// failing that, from the admin_token cookie.
func RequireAuth(tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				return err
			}

			c.Set(ContextAdminID, claims.AdminID)
			c.Set(ContextAdminEmail, claims.Email)
			c.Set(ContextAdminRole, claims.Role)
			c.Set(ContextAdminName, claims.Name)

			return next(c)
		}
	}
}

func extractToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(authCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}
