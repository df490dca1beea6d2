package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternalError       = errors.New("internal error")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrRecurringNotFound   = errors.New("recurring item not found")
	ErrGoalNotFound        = errors.New("goal not found")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidType         = errors.New("type must be income or expense")
	ErrInvalidCategory     = errors.New("unknown category")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrDescriptionRequired = errors.New("description is required")
	ErrDescriptionTooLong  = errors.New("description exceeds maximum length")
	ErrTitleRequired       = errors.New("title is required")
)

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxTitleLength       = 255
)

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrRecurringNotFound) ||
		errors.Is(err, ErrGoalNotFound)
}
