package handler

import (
	"github.com/labstack/echo/v4"
)

// envelope is the canonical success body. Every 2xx response uses it so
// clients can branch on the success flag alone.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}
