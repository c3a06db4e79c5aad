package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Sentinel errors for the core taxonomy. Handlers map these onto HTTP
// statuses; everything else is a storage failure and stays server-side.
var (
	ErrTenantNotResolved = errors.New("tenant not resolved")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
)

// ValidationError is a field-level input error. It is always recovered
// locally and returned as a 400, never as a server error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ErrorResponse is the single client-facing error shape. Every failure
// response is a JSON object with one "error" string; internal detail never
// leaves the server.
type ErrorResponse struct {
	Error string `json:"error"`
}

func SendError(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorResponse{Error: message})
}

func SendValidationError(c echo.Context, err *ValidationError) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

func SendUnauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
}

func SendServerError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}
