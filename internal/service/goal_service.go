package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/dafibh/fluxo/fluxo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalService handles financial goals
type GoalService struct {
	changeNotifier
	goalRepo domain.GoalRepository
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.GoalRepository) *GoalService {
	return &GoalService{
		goalRepo: goalRepo,
	}
}

// GoalInput holds the input for creating or updating a goal
type GoalInput struct {
	Title         string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      *time.Time
}

// CreateGoal creates a new goal
func (s *GoalService) CreateGoal(ctx context.Context, userID string, input GoalInput) (*domain.FinancialGoal, error) {
	goal := &domain.FinancialGoal{
		UserID:        userID,
		Title:         strings.TrimSpace(input.Title),
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		Deadline:      input.Deadline,
	}
	if err := goal.Validate(); err != nil {
		return nil, err
	}

	created, err := s.goalRepo.Create(ctx, goal)
	if err != nil {
		return nil, err
	}

	s.changed(userID, websocket.GoalChanged(websocket.EventTypeCreated, created))
	return created, nil
}

// GetGoals lists a user's goals
func (s *GoalService) GetGoals(ctx context.Context, userID string) ([]*domain.FinancialGoal, error) {
	return s.goalRepo.ListByUser(ctx, userID)
}

// GetGoalByID retrieves a goal
func (s *GoalService) GetGoalByID(ctx context.Context, userID string, id uuid.UUID) (*domain.FinancialGoal, error) {
	return s.goalRepo.GetByID(ctx, userID, id)
}

// UpdateGoal replaces the fields of a goal
func (s *GoalService) UpdateGoal(ctx context.Context, userID string, id uuid.UUID, input GoalInput) (*domain.FinancialGoal, error) {
	goal := &domain.FinancialGoal{
		ID:            id,
		UserID:        userID,
		Title:         strings.TrimSpace(input.Title),
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		Deadline:      input.Deadline,
	}
	if err := goal.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.goalRepo.Update(ctx, goal)
	if err != nil {
		return nil, err
	}

	s.changed(userID, websocket.GoalChanged(websocket.EventTypeUpdated, updated))
	return updated, nil
}

// UpdateProgress sets how much has been saved towards a goal
func (s *GoalService) UpdateProgress(ctx context.Context, userID string, id uuid.UUID, current decimal.Decimal) (*domain.FinancialGoal, error) {
	if current.IsNegative() {
		return nil, fmt.Errorf("%w: current amount cannot be negative", domain.ErrInvalidInput)
	}

	updated, err := s.goalRepo.UpdateProgress(ctx, userID, id, current)
	if err != nil {
		return nil, err
	}

	s.changed(userID, websocket.GoalChanged(websocket.EventTypeUpdated, updated))
	return updated, nil
}

// DeleteGoal deletes a goal
func (s *GoalService) DeleteGoal(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.goalRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.changed(userID, websocket.GoalChanged(websocket.EventTypeDeleted, map[string]interface{}{"id": id}))
	return nil
}
