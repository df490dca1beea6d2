package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://fluxo.app/errors/validation"
	ErrorTypeNotFound     = "https://fluxo.app/errors/not-found"
	ErrorTypeUnauthorized = "https://fluxo.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://fluxo.app/errors/forbidden"
	ErrorTypeConflict     = "https://fluxo.app/errors/conflict"
	ErrorTypeInternal     = "https://fluxo.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return c.JSON(http.StatusForbidden, ProblemDetails{
		Type:     ErrorTypeForbidden,
		Title:    "Forbidden",
		Status:   http.StatusForbidden,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// fieldError is a request parsing failure. field is empty when the failure
// cannot be pinned to a single field, such as an unreadable body.
type fieldError struct {
	detail  string
	field   string
	message string
}

func (e *fieldError) Error() string {
	if e.field == "" {
		return e.detail
	}
	return e.field + ": " + e.message
}

var errInvalidBody = &fieldError{detail: "Invalid request body"}

// respondFieldError writes a parsing failure as a single validation problem
func respondFieldError(c echo.Context, err error) error {
	var fe *fieldError
	if !errors.As(err, &fe) {
		return NewValidationError(c, err.Error(), nil)
	}
	if fe.field == "" {
		return NewValidationError(c, fe.detail, nil)
	}
	return NewValidationError(c, fe.detail, []ValidationError{
		{Field: fe.field, Message: fe.message},
	})
}

// handleServiceError maps a service error onto a Problem Details response.
// Anything that is neither invalid input nor a missing resource is logged
// and reported as an internal error with the given detail.
func handleServiceError(c echo.Context, err error, userID string, detail string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, validationDetail(err), nil)
	case domain.IsNotFound(err):
		return NewNotFoundError(c, notFoundDetail(err))
	}
	log.Error().Err(err).Str("user_id", userID).Str("path", c.Request().URL.Path).Msg(detail)
	return NewInternalError(c, detail)
}

// validationDetail strips the sentinel prefix so the client sees the reason
func validationDetail(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, domain.ErrInvalidInput.Error()+": "); ok {
		return rest
	}
	return msg
}

func notFoundDetail(err error) string {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		return "Transaction not found"
	case errors.Is(err, domain.ErrRecurringNotFound):
		return "Recurring item not found"
	case errors.Is(err, domain.ErrGoalNotFound):
		return "Goal not found"
	}
	return "Resource not found"
}
