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

// RecurringService handles expected recurring inflows and outflows
type RecurringService struct {
	changeNotifier
	recurringRepo domain.RecurringRepository
}

// NewRecurringService creates a new RecurringService
func NewRecurringService(recurringRepo domain.RecurringRepository) *RecurringService {
	return &RecurringService{
		recurringRepo: recurringRepo,
	}
}

// RecurringInput holds the input for creating or updating a recurring item
type RecurringInput struct {
	Name      string
	Amount    decimal.Decimal
	Type      domain.TransactionType
	Category  domain.Category
	Frequency domain.Frequency
	DueDay    int
	StartDate time.Time
	EndDate   *time.Time
}

func (in RecurringInput) toItem(userID string) *domain.RecurringItem {
	item := &domain.RecurringItem{
		UserID:    userID,
		Name:      strings.TrimSpace(in.Name),
		Amount:    in.Amount,
		Type:      in.Type,
		Category:  in.Category,
		Frequency: in.Frequency,
		DueDay:    in.DueDay,
		StartDate: util.StartOfDay(in.StartDate),
		IsActive:  true,
	}
	if item.Category == "" {
		item.Category = domain.CategoryOther
	}
	// only monthly items are anchored to a day of month
	if item.Frequency != domain.FrequencyMonthly {
		item.DueDay = 0
	}
	if in.EndDate != nil {
		end := util.StartOfDay(*in.EndDate)
		item.EndDate = &end
	}
	return item
}

// CreateRecurring creates a new recurring item
func (s *RecurringService) CreateRecurring(ctx context.Context, userID string, input RecurringInput) (*domain.RecurringItem, error) {
	item := input.toItem(userID)
	if err := item.Validate(); err != nil {
		return nil, err
	}

	created, err := s.recurringRepo.Create(ctx, item)
	if err != nil {
		return nil, err
	}

	s.changed(userID, websocket.RecurringChanged(websocket.EventTypeCreated, created))
	return created, nil
}

// GetRecurring lists a user's recurring items
func (s *RecurringService) GetRecurring(ctx context.Context, userID string, activeOnly bool) ([]*domain.RecurringItem, error) {
	return s.recurringRepo.ListByUser(ctx, userID, activeOnly)
}

// UpdateRecurring replaces the fields of a recurring item, keeping its active flag
func (s *RecurringService) UpdateRecurring(ctx context.Context, userID string, id uuid.UUID, input RecurringInput) (*domain.RecurringItem, error) {
	existing, err := s.recurringRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	item := input.toItem(userID)
	item.ID = existing.ID
	item.IsActive = existing.IsActive
	if err := item.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.recurringRepo.Update(ctx, item)
	if err != nil {
		return nil, err
	}

	s.changed(userID, websocket.RecurringChanged(websocket.EventTypeUpdated, updated))
	return updated, nil
}

// SetActive pauses or resumes a recurring item
func (s *RecurringService) SetActive(ctx context.Context, userID string, id uuid.UUID, active bool) (*domain.RecurringItem, error) {
	updated, err := s.recurringRepo.SetActive(ctx, userID, id, active)
	if err != nil {
		return nil, err
	}

	s.changed(userID, websocket.RecurringChanged(websocket.EventTypeUpdated, updated))
	return updated, nil
}

// DeleteRecurring deletes a recurring item
func (s *RecurringService) DeleteRecurring(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.recurringRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.changed(userID, websocket.RecurringChanged(websocket.EventTypeDeleted, map[string]interface{}{"id": id}))
	return nil
}
