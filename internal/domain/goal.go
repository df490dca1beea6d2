package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinancialGoal is a savings target tracked by the user.
type FinancialGoal struct {
	ID            uuid.UUID       `json:"id"`
	UserID        string          `json:"userId"`
	Title         string          `json:"title"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ProgressPercent returns current/target*100 rounded to an integer, 0 when
// the target is zero.
func (g *FinancialGoal) ProgressPercent() int {
	if g.TargetAmount.IsZero() {
		return 0
	}
	return int(g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// Validate checks the fields a user can set.
func (g *FinancialGoal) Validate() error {
	title := strings.TrimSpace(g.Title)
	if title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrTitleRequired)
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds maximum length", ErrInvalidInput)
	}
	if !g.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: target %w", ErrInvalidInput, ErrInvalidAmount)
	}
	if g.CurrentAmount.IsNegative() {
		return fmt.Errorf("%w: current amount cannot be negative", ErrInvalidInput)
	}
	return nil
}

type GoalRepository interface {
	Create(ctx context.Context, goal *FinancialGoal) (*FinancialGoal, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*FinancialGoal, error)
	ListByUser(ctx context.Context, userID string) ([]*FinancialGoal, error)
	Update(ctx context.Context, goal *FinancialGoal) (*FinancialGoal, error)
	UpdateProgress(ctx context.Context, userID string, id uuid.UUID, current decimal.Decimal) (*FinancialGoal, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}
