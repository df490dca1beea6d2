package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// IsValid reports whether f is a supported frequency.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// RecurringItem is an expected inflow or outflow that repeats on a schedule.
type RecurringItem struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"userId"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Type      TransactionType `json:"type"`
	Category  Category        `json:"category"`
	Frequency Frequency       `json:"frequency"`
	DueDay    int             `json:"dueDay,omitempty"`
	StartDate time.Time       `json:"startDate"`
	EndDate   *time.Time      `json:"endDate,omitempty"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Validate checks the fields a user can set.
func (r *RecurringItem) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrDescriptionRequired)
	}
	if len(name) > MaxDescriptionLength {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrDescriptionTooLong)
	}
	if !r.Type.IsValid() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidType)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidAmount)
	}
	if !r.Category.IsValid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidInput, ErrInvalidCategory, r.Category)
	}
	if !r.Frequency.IsValid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, r.Frequency)
	}
	if r.Frequency == FrequencyMonthly && (r.DueDay < 1 || r.DueDay > 31) {
		return fmt.Errorf("%w: due day must be between 1 and 31", ErrInvalidInput)
	}
	if r.StartDate.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidDate)
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}
	return nil
}

type RecurringRepository interface {
	Create(ctx context.Context, item *RecurringItem) (*RecurringItem, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*RecurringItem, error)
	ListByUser(ctx context.Context, userID string, activeOnly bool) ([]*RecurringItem, error)
	ListActiveOwners(ctx context.Context) ([]string, error)
	Update(ctx context.Context, item *RecurringItem) (*RecurringItem, error)
	SetActive(ctx context.Context, userID string, id uuid.UUID, active bool) (*RecurringItem, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}
