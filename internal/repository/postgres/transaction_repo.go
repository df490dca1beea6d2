package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, user_id, type, amount, description, category, transaction_date, created_at, updated_at`

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		pool: pool,
	}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO transactions (id, user_id, type, amount, description, category, transaction_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+transactionColumns,
		uuidToPg(uuid.New()),
		transaction.UserID,
		string(transaction.Type),
		amount,
		transaction.Description,
		string(transaction.Category),
		timeToPgDate(transaction.TransactionDate),
	)
	created, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	return created, nil
}

// GetByID retrieves a transaction by its ID within the user's data
func (r *TransactionRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions
		 WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`,
		uuidToPg(id), userID,
	)
	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// List retrieves a page of the user's transactions, newest first
func (r *TransactionRepository) List(ctx context.Context, userID string, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{Page: 1, PageSize: domain.DefaultPageSize}
	}

	where, args := buildTransactionFilter(userID, filters)

	var totalItems int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE `+where, args...).Scan(&totalItems); err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize
	pageArgs := append(args, filters.PageSize, offset)
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM transactions WHERE %s
		 ORDER BY transaction_date DESC, created_at DESC
		 LIMIT $%d OFFSET $%d`, transactionColumns, where, len(args)+1, len(args)+2),
		pageArgs...,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	data, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int32(totalItems / int64(filters.PageSize))
	if totalItems%int64(filters.PageSize) > 0 {
		totalPages++
	}

	return &domain.PaginatedTransactions{
		Data:       data,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// ListByDateRange retrieves every transaction of the user dated within [start, end]
func (r *TransactionRepository) ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions
		 WHERE user_id = $1 AND deleted_at IS NULL
		   AND transaction_date BETWEEN $2 AND $3
		 ORDER BY transaction_date, created_at`,
		userID, timeToPgDate(start), timeToPgDate(end),
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions by date range: %w", err)
	}
	return collectTransactions(rows)
}

// Update replaces the mutable fields of a transaction
func (r *TransactionRepository) Update(ctx context.Context, userID string, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE transactions
		 SET type = $3, amount = $4, description = $5, category = $6, transaction_date = $7, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		 RETURNING `+transactionColumns,
		uuidToPg(id),
		userID,
		string(data.Type),
		amount,
		data.Description,
		string(data.Category),
		timeToPgDate(data.TransactionDate),
	)
	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// Delete soft deletes a transaction
func (r *TransactionRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE transactions SET deleted_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`,
		uuidToPg(id), userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// SumByType sums the amounts of one type dated on or before until
func (r *TransactionRepository) SumByType(ctx context.Context, userID string, until time.Time, txType domain.TransactionType) (decimal.Decimal, error) {
	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)
		 FROM transactions
		 WHERE user_id = $1 AND type = $2 AND transaction_date <= $3 AND deleted_at IS NULL`,
		userID, string(txType), timeToPgDate(until),
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum %s transactions: %w", txType, err)
	}
	return pgNumericToDecimal(total), nil
}

// buildTransactionFilter returns the WHERE clause and its positional args
func buildTransactionFilter(userID string, filters *domain.TransactionFilters) (string, []any) {
	conditions := []string{"user_id = $1", "deleted_at IS NULL"}
	args := []any{userID}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if filters.StartDate != nil {
		add("transaction_date >= $%d", timeToPgDate(*filters.StartDate))
	}
	if filters.EndDate != nil {
		add("transaction_date <= $%d", timeToPgDate(*filters.EndDate))
	}
	if filters.Type != nil {
		add("type = $%d", string(*filters.Type))
	}
	if filters.Category != nil {
		add("category = $%d", string(*filters.Category))
	}

	return strings.Join(conditions, " AND "), args
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	defer rows.Close()

	result := make([]*domain.Transaction, 0)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, transaction)
	}
	return result, rows.Err()
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var (
		id              pgtype.UUID
		txType          string
		amount          pgtype.Numeric
		category        string
		transactionDate pgtype.Date
		createdAt       pgtype.Timestamptz
		updatedAt       pgtype.Timestamptz
		transaction     domain.Transaction
	)
	if err := row.Scan(
		&id,
		&transaction.UserID,
		&txType,
		&amount,
		&transaction.Description,
		&category,
		&transactionDate,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	transaction.ID = pgToUUID(id)
	transaction.Type = domain.TransactionType(txType)
	transaction.Amount = pgNumericToDecimal(amount)
	transaction.Category = domain.Category(category)
	transaction.TransactionDate = pgDateToTime(transactionDate)
	transaction.CreatedAt = createdAt.Time
	transaction.UpdatedAt = updatedAt.Time
	return &transaction, nil
}
