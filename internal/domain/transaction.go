package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is income or expense.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Sign returns +1 for income and -1 for expense.
func (t TransactionType) Sign() int64 {
	if t == TransactionTypeExpense {
		return -1
	}
	return 1
}

// Transaction is a single money movement. Amount is always positive, the
// direction is carried by Type.
type Transaction struct {
	ID              uuid.UUID       `json:"id"`
	UserID          string          `json:"userId"`
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Category        Category        `json:"category"`
	TransactionDate time.Time       `json:"transactionDate"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Signed returns the amount with the direction applied.
func (t *Transaction) Signed() decimal.Decimal {
	return t.Amount.Mul(decimal.NewFromInt(t.Type.Sign()))
}

// Validate checks the fields a user can set.
func (t *Transaction) Validate() error {
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidType)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidAmount)
	}
	desc := strings.TrimSpace(t.Description)
	if desc == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrDescriptionRequired)
	}
	if len(desc) > MaxDescriptionLength {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrDescriptionTooLong)
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidInput, ErrInvalidCategory, t.Category)
	}
	if t.TransactionDate.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidDate)
	}
	return nil
}

type TransactionFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      *TransactionType
	Category  *Category
	Page      int32
	PageSize  int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

// UpdateTransactionData holds the mutable fields of a transaction
type UpdateTransactionData struct {
	Type            TransactionType
	Amount          decimal.Decimal
	Description     string
	Category        Category
	TransactionDate time.Time
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, userID string, filters *TransactionFilters) (*PaginatedTransactions, error)
	ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]*Transaction, error)
	Update(ctx context.Context, userID string, id uuid.UUID, data *UpdateTransactionData) (*Transaction, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	SumByType(ctx context.Context, userID string, until time.Time, txType TransactionType) (decimal.Decimal, error)
}
