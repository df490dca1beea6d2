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
	"github.com/shopspring/decimal"
)

const goalColumns = `id, user_id, title, target_amount, current_amount, deadline, created_at, updated_at`

// GoalRepository implements domain.GoalRepository using PostgreSQL
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{
		pool: pool,
	}
}

// Create creates a new goal
func (r *GoalRepository) Create(ctx context.Context, goal *domain.FinancialGoal) (*domain.FinancialGoal, error) {
	target, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}
	current, err := decimalToPgNumeric(goal.CurrentAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid current amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO financial_goals (id, user_id, title, target_amount, current_amount, deadline)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+goalColumns,
		uuidToPg(uuid.New()),
		goal.UserID,
		goal.Title,
		target,
		current,
		timePtrToPgDate(goal.Deadline),
	)
	created, err := scanGoal(row)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	return created, nil
}

// GetByID retrieves a goal owned by the user
func (r *GoalRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.FinancialGoal, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM financial_goals WHERE id = $1 AND user_id = $2`,
		uuidToPg(id), userID,
	)
	return goalOrNotFound(scanGoal(row))
}

// ListByUser retrieves the user's goals ordered by title
func (r *GoalRepository) ListByUser(ctx context.Context, userID string) ([]*domain.FinancialGoal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+goalColumns+` FROM financial_goals WHERE user_id = $1 ORDER BY title, created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.FinancialGoal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, goal)
	}
	return result, rows.Err()
}

// Update replaces the fields of a goal
func (r *GoalRepository) Update(ctx context.Context, goal *domain.FinancialGoal) (*domain.FinancialGoal, error) {
	target, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}
	current, err := decimalToPgNumeric(goal.CurrentAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid current amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE financial_goals
		 SET title = $3, target_amount = $4, current_amount = $5, deadline = $6, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+goalColumns,
		uuidToPg(goal.ID),
		goal.UserID,
		goal.Title,
		target,
		current,
		timePtrToPgDate(goal.Deadline),
	)
	return goalOrNotFound(scanGoal(row))
}

// UpdateProgress sets the saved amount of a goal
func (r *GoalRepository) UpdateProgress(ctx context.Context, userID string, id uuid.UUID, current decimal.Decimal) (*domain.FinancialGoal, error) {
	amount, err := decimalToPgNumeric(current)
	if err != nil {
		return nil, fmt.Errorf("invalid current amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE financial_goals SET current_amount = $3, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+goalColumns,
		uuidToPg(id), userID, amount,
	)
	return goalOrNotFound(scanGoal(row))
}

// Delete removes a goal
func (r *GoalRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM financial_goals WHERE id = $1 AND user_id = $2`,
		uuidToPg(id), userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func goalOrNotFound(goal *domain.FinancialGoal, err error) (*domain.FinancialGoal, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

func scanGoal(row rowScanner) (*domain.FinancialGoal, error) {
	var (
		id        pgtype.UUID
		target    pgtype.Numeric
		current   pgtype.Numeric
		deadline  pgtype.Date
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
		goal      domain.FinancialGoal
	)
	if err := row.Scan(
		&id,
		&goal.UserID,
		&goal.Title,
		&target,
		&current,
		&deadline,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	goal.ID = pgToUUID(id)
	goal.TargetAmount = pgNumericToDecimal(target)
	goal.CurrentAmount = pgNumericToDecimal(current)
	goal.Deadline = pgDateToTimePtr(deadline)
	goal.CreatedAt = createdAt.Time
	goal.UpdatedAt = updatedAt.Time
	return &goal, nil
}
