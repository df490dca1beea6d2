package service

import (
	"context"
	"strings"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/dafibh/fluxo/fluxo-backend/internal/util"
	"github.com/dafibh/fluxo/fluxo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	changeNotifier
	transactionRepo domain.TransactionRepository
	now             func() time.Time
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Type            domain.TransactionType
	Amount          decimal.Decimal
	Description     string
	Category        domain.Category
	TransactionDate *time.Time
}

// CreateTransaction creates a new transaction with validation
func (s *TransactionService) CreateTransaction(ctx context.Context, userID string, input CreateTransactionInput) (*domain.Transaction, error) {
	// Default transaction_date to today if not provided
	transactionDate := util.StartOfDay(s.now())
	if input.TransactionDate != nil {
		transactionDate = util.StartOfDay(*input.TransactionDate)
	}

	category := input.Category
	if category == "" {
		category = domain.CategoryOther
	}

	transaction := &domain.Transaction{
		UserID:          userID,
		Type:            input.Type,
		Amount:          input.Amount,
		Description:     strings.TrimSpace(input.Description),
		Category:        category,
		TransactionDate: transactionDate,
	}
	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	created, err := s.transactionRepo.Create(ctx, transaction)
	if err != nil {
		return nil, err
	}

	s.changed(userID, websocket.TransactionCreated(created))
	return created, nil
}

// GetTransactions retrieves transactions for a user with optional filters and pagination
func (s *TransactionService) GetTransactions(ctx context.Context, userID string, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	return s.transactionRepo.List(ctx, userID, normalizeFilters(filters))
}

// GetTransactionByID retrieves a transaction by ID for a user
func (s *TransactionService) GetTransactionByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, userID, id)
}

// UpdateTransactionInput holds the input for updating a transaction
type UpdateTransactionInput struct {
	Type            domain.TransactionType
	Amount          decimal.Decimal
	Description     string
	Category        domain.Category
	TransactionDate time.Time
}

// UpdateTransaction updates an existing transaction with validation
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID string, id uuid.UUID, input UpdateTransactionInput) (*domain.Transaction, error) {
	candidate := &domain.Transaction{
		UserID:          userID,
		Type:            input.Type,
		Amount:          input.Amount,
		Description:     strings.TrimSpace(input.Description),
		Category:        input.Category,
		TransactionDate: input.TransactionDate,
	}
	if candidate.Category == "" {
		candidate.Category = domain.CategoryOther
	}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.transactionRepo.Update(ctx, userID, id, &domain.UpdateTransactionData{
		Type:            candidate.Type,
		Amount:          candidate.Amount,
		Description:     candidate.Description,
		Category:        candidate.Category,
		TransactionDate: util.StartOfDay(candidate.TransactionDate),
	})
	if err != nil {
		return nil, err
	}

	s.changed(userID, websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction deletes a transaction
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.transactionRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.changed(userID, websocket.TransactionDeleted(map[string]interface{}{"id": id}))
	return nil
}

// normalizeFilters applies pagination defaults and bounds
func normalizeFilters(filters *domain.TransactionFilters) *domain.TransactionFilters {
	normalized := domain.TransactionFilters{}
	if filters != nil {
		normalized = *filters
	}
	if normalized.Page < 1 {
		normalized.Page = 1
	}
	if normalized.PageSize < 1 {
		normalized.PageSize = domain.DefaultPageSize
	}
	if normalized.PageSize > domain.MaxPageSize {
		normalized.PageSize = domain.MaxPageSize
	}
	return &normalized
}
