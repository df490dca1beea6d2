package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const recurringColumns = `id, user_id, name, amount, type, category, frequency, due_day, start_date, end_date, is_active, created_at, updated_at`

// RecurringRepository implements domain.RecurringRepository using PostgreSQL
type RecurringRepository struct {
	pool *pgxpool.Pool
}

// NewRecurringRepository creates a new RecurringRepository
func NewRecurringRepository(pool *pgxpool.Pool) *RecurringRepository {
	return &RecurringRepository{
		pool: pool,
	}
}

// Create creates a new recurring item
func (r *RecurringRepository) Create(ctx context.Context, item *domain.RecurringItem) (*domain.RecurringItem, error) {
	amount, err := decimalToPgNumeric(item.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO recurring_items (id, user_id, name, amount, type, category, frequency, due_day, start_date, end_date, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+recurringColumns,
		uuidToPg(uuid.New()),
		item.UserID,
		item.Name,
		amount,
		string(item.Type),
		string(item.Category),
		string(item.Frequency),
		int32(item.DueDay),
		timeToPgDate(item.StartDate),
		timePtrToPgDate(item.EndDate),
		item.IsActive,
	)
	created, err := scanRecurring(row)
	if err != nil {
		return nil, fmt.Errorf("insert recurring item: %w", err)
	}
	return created, nil
}

// GetByID retrieves a recurring item owned by the user
func (r *RecurringRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.RecurringItem, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+recurringColumns+` FROM recurring_items WHERE id = $1 AND user_id = $2`,
		uuidToPg(id), userID,
	)
	item, err := scanRecurring(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecurringNotFound
		}
		return nil, err
	}
	return item, nil
}

// ListByUser retrieves the user's recurring items ordered by name
func (r *RecurringRepository) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]*domain.RecurringItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+recurringColumns+`
		 FROM recurring_items
		 WHERE user_id = $1 AND (NOT $2 OR is_active)
		 ORDER BY name, created_at`,
		userID, activeOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("list recurring items: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.RecurringItem, 0)
	for rows.Next() {
		item, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// ListActiveOwners returns every user owning at least one active recurring item
func (r *RecurringRepository) ListActiveOwners(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT user_id FROM recurring_items WHERE is_active ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list active owners: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Update replaces the fields of a recurring item
func (r *RecurringRepository) Update(ctx context.Context, item *domain.RecurringItem) (*domain.RecurringItem, error) {
	amount, err := decimalToPgNumeric(item.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE recurring_items
		 SET name = $3, amount = $4, type = $5, category = $6, frequency = $7, due_day = $8,
		     start_date = $9, end_date = $10, is_active = $11, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+recurringColumns,
		uuidToPg(item.ID),
		item.UserID,
		item.Name,
		amount,
		string(item.Type),
		string(item.Category),
		string(item.Frequency),
		int32(item.DueDay),
		timeToPgDate(item.StartDate),
		timePtrToPgDate(item.EndDate),
		item.IsActive,
	)
	updated, err := scanRecurring(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecurringNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SetActive pauses or resumes a recurring item
func (r *RecurringRepository) SetActive(ctx context.Context, userID string, id uuid.UUID, active bool) (*domain.RecurringItem, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE recurring_items SET is_active = $3, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+recurringColumns,
		uuidToPg(id), userID, active,
	)
	item, err := scanRecurring(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecurringNotFound
		}
		return nil, err
	}
	return item, nil
}

// Delete removes a recurring item
func (r *RecurringRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM recurring_items WHERE id = $1 AND user_id = $2`,
		uuidToPg(id), userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecurringNotFound
	}
	return nil
}

func scanRecurring(row rowScanner) (*domain.RecurringItem, error) {
	var (
		id        pgtype.UUID
		amount    pgtype.Numeric
		itemType  string
		category  string
		frequency string
		dueDay    int32
		startDate pgtype.Date
		endDate   pgtype.Date
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
		item      domain.RecurringItem
	)
	if err := row.Scan(
		&id,
		&item.UserID,
		&item.Name,
		&amount,
		&itemType,
		&category,
		&frequency,
		&dueDay,
		&startDate,
		&endDate,
		&item.IsActive,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	item.ID = pgToUUID(id)
	item.Amount = pgNumericToDecimal(amount)
	item.Type = domain.TransactionType(itemType)
	item.Category = domain.Category(category)
	item.Frequency = domain.Frequency(frequency)
	item.DueDay = int(dueDay)
	item.StartDate = pgDateToTime(startDate)
	item.EndDate = pgDateToTimePtr(endDate)
	item.CreatedAt = createdAt.Time
	item.UpdatedAt = updatedAt.Time
	return &item, nil
}
