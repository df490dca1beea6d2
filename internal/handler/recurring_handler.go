package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/dafibh/fluxo/fluxo-backend/internal/middleware"
	"github.com/dafibh/fluxo/fluxo-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// RecurringHandler handles recurring item HTTP requests
type RecurringHandler struct {
	recurringService *service.RecurringService
}

// NewRecurringHandler creates a new RecurringHandler
func NewRecurringHandler(recurringService *service.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// RecurringRequest represents the create/update recurring item request body
type RecurringRequest struct {
	Name      string  `json:"name"`
	Amount    string  `json:"amount"`
	Type      string  `json:"type"`
	Category  string  `json:"category,omitempty"`
	Frequency string  `json:"frequency"`
	DueDay    int     `json:"dueDay,omitempty"`
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate,omitempty"`
}

// SetActiveRequest represents the toggle request body
type SetActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

// RecurringResponse represents a recurring item in API responses
type RecurringResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Amount    string  `json:"amount"`
	Type      string  `json:"type"`
	Category  string  `json:"category"`
	Frequency string  `json:"frequency"`
	DueDay    int     `json:"dueDay,omitempty"`
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate,omitempty"`
	IsActive  bool    `json:"isActive"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// CreateRecurring handles POST /api/v1/recurring
func (h *RecurringHandler) CreateRecurring(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	input, err := bindRecurringInput(c)
	if err != nil {
		return respondFieldError(c, err)
	}

	item, err := h.recurringService.CreateRecurring(c.Request().Context(), userID, input)
	if err != nil {
		return handleServiceError(c, err, userID, "Failed to create recurring item")
	}

	log.Info().Str("user_id", userID).Str("recurring_id", item.ID.String()).Msg("Recurring item created")
	return c.JSON(http.StatusCreated, toRecurringResponse(item))
}

// GetRecurring handles GET /api/v1/recurring?active=true
func (h *RecurringHandler) GetRecurring(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	activeOnly := c.QueryParam("active") == "true"

	items, err := h.recurringService.GetRecurring(c.Request().Context(), userID, activeOnly)
	if err != nil {
		return handleServiceError(c, err, userID, "Failed to get recurring items")
	}

	response := make([]RecurringResponse, len(items))
	for i, item := range items {
		response[i] = toRecurringResponse(item)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateRecurring handles PUT /api/v1/recurring/:id
func (h *RecurringHandler) UpdateRecurring(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid recurring item ID", nil)
	}

	input, err := bindRecurringInput(c)
	if err != nil {
		return respondFieldError(c, err)
	}

	item, err := h.recurringService.UpdateRecurring(c.Request().Context(), userID, id, input)
	if err != nil {
		return handleServiceError(c, err, userID, "Failed to update recurring item")
	}

	log.Info().Str("user_id", userID).Str("recurring_id", id.String()).Msg("Recurring item updated")
	return c.JSON(http.StatusOK, toRecurringResponse(item))
}

// SetActive handles PATCH /api/v1/recurring/:id/active
func (h *RecurringHandler) SetActive(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid recurring item ID", nil)
	}

	var req SetActiveRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.IsActive == nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "isActive", Message: "isActive is required"},
		})
	}

	item, err := h.recurringService.SetActive(c.Request().Context(), userID, id, *req.IsActive)
	if err != nil {
		return handleServiceError(c, err, userID, "Failed to update recurring item")
	}
	return c.JSON(http.StatusOK, toRecurringResponse(item))
}

// DeleteRecurring handles DELETE /api/v1/recurring/:id
func (h *RecurringHandler) DeleteRecurring(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid recurring item ID", nil)
	}

	if err := h.recurringService.DeleteRecurring(c.Request().Context(), userID, id); err != nil {
		return handleServiceError(c, err, userID, "Failed to delete recurring item")
	}

	log.Info().Str("user_id", userID).Str("recurring_id", id.String()).Msg("Recurring item deleted")
	return c.NoContent(http.StatusNoContent)
}

func bindRecurringInput(c echo.Context) (service.RecurringInput, error) {
	var req RecurringRequest
	if err := c.Bind(&req); err != nil {
		return service.RecurringInput{}, errInvalidBody
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return service.RecurringInput{}, &fieldError{detail: "Invalid amount", field: "amount", message: "Must be a valid decimal number"}
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return service.RecurringInput{}, &fieldError{detail: "Invalid startDate", field: "startDate", message: "Must be in YYYY-MM-DD format"}
	}

	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return service.RecurringInput{}, &fieldError{detail: "Invalid endDate", field: "endDate", message: "Must be in YYYY-MM-DD format"}
		}
		endDate = &parsed
	}

	return service.RecurringInput{
		Name:      req.Name,
		Amount:    amount,
		Type:      domain.TransactionType(req.Type),
		Category:  domain.Category(req.Category),
		Frequency: domain.Frequency(req.Frequency),
		DueDay:    req.DueDay,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

func toRecurringResponse(item *domain.RecurringItem) RecurringResponse {
	resp := RecurringResponse{
		ID:        item.ID.String(),
		Name:      item.Name,
		Amount:    money(item.Amount),
		Type:      string(item.Type),
		Category:  string(item.Category),
		Frequency: string(item.Frequency),
		DueDay:    item.DueDay,
		StartDate: item.StartDate.Format(dateLayout),
		IsActive:  item.IsActive,
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
		UpdatedAt: item.UpdatedAt.Format(time.RFC3339),
	}
	if item.EndDate != nil {
		d := item.EndDate.Format(dateLayout)
		resp.EndDate = &d
	}
	return resp
}
