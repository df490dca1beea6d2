package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/dafibh/fluxo/fluxo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions map[uuid.UUID]*domain.Transaction
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	ListFn       func(userID string, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error)
	RangeFn      func(userID string, start, end time.Time) ([]*domain.Transaction, error)
	SumByTypeFn  func(userID string, until time.Time, txType domain.TransactionType) (decimal.Decimal, error)
	RangeCalls   int
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// AddTransaction adds a transaction to the mock repository
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	m.Transactions[transaction.ID] = transaction
}

// Create stores a new transaction
func (m *MockTransactionRepository) Create(_ context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *transaction
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.Transactions[created.ID] = &created
	return &created, nil
}

// GetByID retrieves a transaction owned by userID
func (m *MockTransactionRepository) GetByID(_ context.Context, userID string, id uuid.UUID) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, nil
}

// List retrieves a page of transactions matching the filters, newest first
func (m *MockTransactionRepository) List(_ context.Context, userID string, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if m.ListFn != nil {
		return m.ListFn(userID, filters)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.StartDate != nil && t.TransactionDate.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && t.TransactionDate.After(*filters.EndDate) {
				continue
			}
			if filters.Type != nil && t.Type != *filters.Type {
				continue
			}
			if filters.Category != nil && t.Category != *filters.Category {
				continue
			}
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].TransactionDate.After(matched[j].TransactionDate)
	})

	page, pageSize := int32(1), int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
		}
	}

	total := int64(len(matched))
	startIdx := int((page - 1) * pageSize)
	endIdx := startIdx + int(pageSize)
	if startIdx > len(matched) {
		startIdx = len(matched)
	}
	if endIdx > len(matched) {
		endIdx = len(matched)
	}

	totalPages := int32(total / int64(pageSize))
	if total%int64(pageSize) > 0 {
		totalPages++
	}

	return &domain.PaginatedTransactions{
		Data:       matched[startIdx:endIdx],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// ListByDateRange retrieves every transaction of userID dated within [start, end]
func (m *MockTransactionRepository) ListByDateRange(_ context.Context, userID string, start, end time.Time) ([]*domain.Transaction, error) {
	m.mu.Lock()
	m.RangeCalls++
	m.mu.Unlock()
	if m.RangeFn != nil {
		return m.RangeFn(userID, start, end)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID != userID || t.TransactionDate.Before(start) || t.TransactionDate.After(end) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

// Update replaces the mutable fields of a transaction
func (m *MockTransactionRepository) Update(_ context.Context, userID string, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.Type = data.Type
	transaction.Amount = data.Amount
	transaction.Description = data.Description
	transaction.Category = data.Category
	transaction.TransactionDate = data.TransactionDate
	transaction.UpdatedAt = time.Now()
	return transaction, nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(_ context.Context, userID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// SumByType sums the amounts of one type dated on or before until
func (m *MockTransactionRepository) SumByType(_ context.Context, userID string, until time.Time, txType domain.TransactionType) (decimal.Decimal, error) {
	if m.SumByTypeFn != nil {
		return m.SumByTypeFn(userID, until, txType)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, t := range m.Transactions {
		if t.UserID == userID && t.Type == txType && !t.TransactionDate.After(until) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

// MockRecurringRepository is a mock implementation of domain.RecurringRepository
type MockRecurringRepository struct {
	mu       sync.Mutex
	Items    map[uuid.UUID]*domain.RecurringItem
	ListFn   func(userID string, activeOnly bool) ([]*domain.RecurringItem, error)
	OwnersFn func() ([]string, error)
}

// NewMockRecurringRepository creates a new MockRecurringRepository
func NewMockRecurringRepository() *MockRecurringRepository {
	return &MockRecurringRepository{
		Items: make(map[uuid.UUID]*domain.RecurringItem),
	}
}

// AddItem adds a recurring item to the mock repository
func (m *MockRecurringRepository) AddItem(item *domain.RecurringItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.Items[item.ID] = item
}

// Create stores a new recurring item
func (m *MockRecurringRepository) Create(_ context.Context, item *domain.RecurringItem) (*domain.RecurringItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *item
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.Items[created.ID] = &created
	return &created, nil
}

// GetByID retrieves a recurring item owned by userID
func (m *MockRecurringRepository) GetByID(_ context.Context, userID string, id uuid.UUID) (*domain.RecurringItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.Items[id]
	if !ok || item.UserID != userID {
		return nil, domain.ErrRecurringNotFound
	}
	return item, nil
}

// ListByUser retrieves the recurring items of userID ordered by name
func (m *MockRecurringRepository) ListByUser(_ context.Context, userID string, activeOnly bool) ([]*domain.RecurringItem, error) {
	if m.ListFn != nil {
		return m.ListFn(userID, activeOnly)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.RecurringItem
	for _, item := range m.Items {
		if item.UserID != userID || (activeOnly && !item.IsActive) {
			continue
		}
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ListActiveOwners returns every user with at least one active item
func (m *MockRecurringRepository) ListActiveOwners(_ context.Context) ([]string, error) {
	if m.OwnersFn != nil {
		return m.OwnersFn()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var owners []string
	for _, item := range m.Items {
		if item.IsActive && !seen[item.UserID] {
			seen[item.UserID] = true
			owners = append(owners, item.UserID)
		}
	}
	sort.Strings(owners)
	return owners, nil
}

// Update replaces a stored recurring item
func (m *MockRecurringRepository) Update(_ context.Context, item *domain.RecurringItem) (*domain.RecurringItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Items[item.ID]
	if !ok || existing.UserID != item.UserID {
		return nil, domain.ErrRecurringNotFound
	}
	updated := *item
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	m.Items[item.ID] = &updated
	return &updated, nil
}

// SetActive pauses or resumes a recurring item
func (m *MockRecurringRepository) SetActive(_ context.Context, userID string, id uuid.UUID, active bool) (*domain.RecurringItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.Items[id]
	if !ok || item.UserID != userID {
		return nil, domain.ErrRecurringNotFound
	}
	item.IsActive = active
	item.UpdatedAt = time.Now()
	return item, nil
}

// Delete removes a recurring item
func (m *MockRecurringRepository) Delete(_ context.Context, userID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.Items[id]
	if !ok || item.UserID != userID {
		return domain.ErrRecurringNotFound
	}
	delete(m.Items, id)
	return nil
}

// MockGoalRepository is a mock implementation of domain.GoalRepository
type MockGoalRepository struct {
	mu     sync.Mutex
	Goals  map[uuid.UUID]*domain.FinancialGoal
	ListFn func(userID string) ([]*domain.FinancialGoal, error)
}

// NewMockGoalRepository creates a new MockGoalRepository
func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{
		Goals: make(map[uuid.UUID]*domain.FinancialGoal),
	}
}

// AddGoal adds a goal to the mock repository
func (m *MockGoalRepository) AddGoal(goal *domain.FinancialGoal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	m.Goals[goal.ID] = goal
}

// Create stores a new goal
func (m *MockGoalRepository) Create(_ context.Context, goal *domain.FinancialGoal) (*domain.FinancialGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *goal
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.Goals[created.ID] = &created
	return &created, nil
}

// GetByID retrieves a goal owned by userID
func (m *MockGoalRepository) GetByID(_ context.Context, userID string, id uuid.UUID) (*domain.FinancialGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	goal, ok := m.Goals[id]
	if !ok || goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	return goal, nil
}

// ListByUser retrieves the goals of userID ordered by title
func (m *MockGoalRepository) ListByUser(_ context.Context, userID string) ([]*domain.FinancialGoal, error) {
	if m.ListFn != nil {
		return m.ListFn(userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.FinancialGoal
	for _, goal := range m.Goals {
		if goal.UserID == userID {
			result = append(result, goal)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

// Update replaces a stored goal
func (m *MockGoalRepository) Update(_ context.Context, goal *domain.FinancialGoal) (*domain.FinancialGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Goals[goal.ID]
	if !ok || existing.UserID != goal.UserID {
		return nil, domain.ErrGoalNotFound
	}
	updated := *goal
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	m.Goals[goal.ID] = &updated
	return &updated, nil
}

// UpdateProgress sets the current amount of a goal
func (m *MockGoalRepository) UpdateProgress(_ context.Context, userID string, id uuid.UUID, current decimal.Decimal) (*domain.FinancialGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	goal, ok := m.Goals[id]
	if !ok || goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	goal.CurrentAmount = current
	goal.UpdatedAt = time.Now()
	return goal, nil
}

// Delete removes a goal
func (m *MockGoalRepository) Delete(_ context.Context, userID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	goal, ok := m.Goals[id]
	if !ok || goal.UserID != userID {
		return domain.ErrGoalNotFound
	}
	delete(m.Goals, id)
	return nil
}

// PublishedEvent is an event captured by MockEventPublisher
type PublishedEvent struct {
	UserID string
	Event  websocket.Event
}

// MockEventPublisher records every published WebSocket event
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(userID string, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

// Types returns the recorded event types in publish order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Event.Type
	}
	return types
}

// MockAlertPublisher records every published runway alert
type MockAlertPublisher struct {
	mu     sync.Mutex
	Alerts []domain.RunwayAlert
	Err    error
}

// NewMockAlertPublisher creates a new MockAlertPublisher
func NewMockAlertPublisher() *MockAlertPublisher {
	return &MockAlertPublisher{}
}

// PublishRunwayAlert records the alert, returning Err when set
func (m *MockAlertPublisher) PublishRunwayAlert(_ context.Context, alert domain.RunwayAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Alerts = append(m.Alerts, alert)
	return nil
}

// Count returns how many alerts were published
func (m *MockAlertPublisher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Alerts)
}
