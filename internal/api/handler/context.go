package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-backend/internal/api/middleware"
)

// ctxAdminID extracts the admin identity injected by the auth middleware.
// An empty value means the middleware did not run for this route.
func ctxAdminID(c echo.Context) (string, error) {
	adminID, _ := c.Get(middleware.ContextAdminID).(string)
	if adminID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return adminID, nil
}
