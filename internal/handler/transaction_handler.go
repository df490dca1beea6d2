package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/dafibh/fluxo/fluxo-backend/internal/middleware"
	"github.com/dafibh/fluxo/fluxo-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Type        string  `json:"type"`
	Amount      string  `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category,omitempty"`
	Date        *string `json:"date,omitempty"`
}

// UpdateTransactionRequest represents the update transaction request body.
// Every field is required, the transaction is replaced.
type UpdateTransactionRequest struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	Amount          string `json:"amount"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	TransactionDate string `json:"transactionDate"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// PaginatedTransactionsResponse represents a page of transactions
type PaginatedTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int32                 `json:"page"`
	PageSize   int32                 `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int32                 `json:"totalPages"`
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var transactionDate *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		transactionDate = &parsed
	}

	input := service.CreateTransactionInput{
		Type:            domain.TransactionType(req.Type),
		Amount:          amount,
		Description:     req.Description,
		Category:        domain.Category(req.Category),
		TransactionDate: transactionDate,
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request().Context(), userID, input)
	if err != nil {
		if fieldErr, ok := transactionFieldError(err); ok {
			return NewValidationError(c, "Validation failed", []ValidationError{fieldErr})
		}
		return handleServiceError(c, err, userID, "Failed to create transaction")
	}

	log.Info().
		Str("user_id", userID).
		Str("transaction_id", transaction.ID.String()).
		Str("type", string(transaction.Type)).
		Msg("Transaction created")

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters := &domain.TransactionFilters{
		Page:     1,
		PageSize: domain.DefaultPageSize,
	}

	if s := c.QueryParam("startDate"); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return NewValidationError(c, "Invalid startDate format (use YYYY-MM-DD)", nil)
		}
		filters.StartDate = &parsed
	}

	if s := c.QueryParam("endDate"); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return NewValidationError(c, "Invalid endDate format (use YYYY-MM-DD)", nil)
		}
		filters.EndDate = &parsed
	}

	if s := c.QueryParam("type"); s != "" {
		transactionType := domain.TransactionType(s)
		if !transactionType.IsValid() {
			return NewValidationError(c, "Invalid type (must be 'income' or 'expense')", nil)
		}
		filters.Type = &transactionType
	}

	if s := c.QueryParam("category"); s != "" {
		category := domain.Category(s)
		if !category.IsValid() {
			return NewValidationError(c, "Invalid category", nil)
		}
		filters.Category = &category
	}

	if s := c.QueryParam("page"); s != "" {
		var page int32
		if _, err := parseIntParam(s, &page); err != nil || page < 1 {
			return NewValidationError(c, "Invalid page (must be positive integer)", nil)
		}
		filters.Page = page
	}

	if s := c.QueryParam("pageSize"); s != "" {
		var pageSize int32
		if _, err := parseIntParam(s, &pageSize); err != nil || pageSize < 1 {
			return NewValidationError(c, "Invalid pageSize (must be positive integer)", nil)
		}
		if pageSize > domain.MaxPageSize {
			pageSize = domain.MaxPageSize
		}
		filters.PageSize = pageSize
	}

	result, err := h.transactionService.GetTransactions(c.Request().Context(), userID, filters)
	if err != nil {
		return handleServiceError(c, err, userID, "Failed to get transactions")
	}

	response := PaginatedTransactionsResponse{
		Data:       make([]TransactionResponse, len(result.Data)),
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	}
	for i, transaction := range result.Data {
		response.Data[i] = toTransactionResponse(transaction)
	}

	return c.JSON(http.StatusOK, response)
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(c.Request().Context(), userID, id)
	if err != nil {
		return handleServiceError(c, err, userID, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	transactionDate, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	input := service.UpdateTransactionInput{
		Type:            domain.TransactionType(req.Type),
		Amount:          amount,
		Description:     req.Description,
		Category:        domain.Category(req.Category),
		TransactionDate: transactionDate,
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request().Context(), userID, id, input)
	if err != nil {
		if fieldErr, ok := transactionFieldError(err); ok {
			return NewValidationError(c, "Validation failed", []ValidationError{fieldErr})
		}
		return handleServiceError(c, err, userID, "Failed to update transaction")
	}

	log.Info().Str("user_id", userID).Str("transaction_id", id.String()).Msg("Transaction updated")
	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(c.Request().Context(), userID, id); err != nil {
		return handleServiceError(c, err, userID, "Failed to delete transaction")
	}

	log.Info().Str("user_id", userID).Str("transaction_id", id.String()).Msg("Transaction deleted")
	return c.NoContent(http.StatusNoContent)
}

// transactionFieldError names the field behind a domain validation failure.
// ok is false for anything that is not a field-level failure.
func transactionFieldError(err error) (fieldErr ValidationError, ok bool) {
	var field, message string
	switch {
	case errors.Is(err, domain.ErrDescriptionRequired):
		field, message = "description", "Description is required"
	case errors.Is(err, domain.ErrDescriptionTooLong):
		field, message = "description", "Description must be 255 characters or less"
	case errors.Is(err, domain.ErrInvalidAmount):
		field, message = "amount", "Amount must be positive"
	case errors.Is(err, domain.ErrInvalidType):
		field, message = "type", "Type must be one of: income, expense"
	case errors.Is(err, domain.ErrInvalidCategory):
		field, message = "category", "Unknown category"
	case errors.Is(err, domain.ErrInvalidDate):
		field, message = "date", "Date is required"
	default:
		return ValidationError{}, false
	}
	return ValidationError{Field: field, Message: message}, true
}

// Helper function to parse int query params with overflow protection
func parseIntParam(s string, out *int32) (bool, error) {
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return false, errors.New("invalid integer")
	}
	*out = int32(v)
	return true, nil
}

func toTransactionResponse(transaction *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              transaction.ID.String(),
		Type:            string(transaction.Type),
		Amount:          transaction.Amount.StringFixed(2),
		Description:     transaction.Description,
		Category:        string(transaction.Category),
		TransactionDate: transaction.TransactionDate.Format(dateLayout),
		CreatedAt:       transaction.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       transaction.UpdatedAt.Format(time.RFC3339),
	}
}
