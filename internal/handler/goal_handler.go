package handler

import (
	"errors"
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

// GoalHandler handles financial goal HTTP requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// GoalRequest represents the create/update goal request body
type GoalRequest struct {
	Title         string  `json:"title"`
	TargetAmount  string  `json:"targetAmount"`
	CurrentAmount string  `json:"currentAmount,omitempty"`
	Deadline      *string `json:"deadline,omitempty"`
}

// UpdateProgressRequest represents the progress update request body
type UpdateProgressRequest struct {
	CurrentAmount string `json:"currentAmount"`
}

// GoalResponse represents a goal in API responses
type GoalResponse struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	TargetAmount    string  `json:"targetAmount"`
	CurrentAmount   string  `json:"currentAmount"`
	ProgressPercent int     `json:"progressPercent"`
	Deadline        *string `json:"deadline,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// CreateGoal handles POST /api/v1/goals
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	input, err := bindGoalInput(c)
	if err != nil {
		return respondFieldError(c, err)
	}

	goal, err := h.goalService.CreateGoal(c.Request().Context(), userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrTitleRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "title", Message: "Title is required"},
			})
		}
		return handleServiceError(c, err, userID, "Failed to create goal")
	}

	log.Info().Str("user_id", userID).Str("goal_id", goal.ID.String()).Msg("Goal created")
	return c.JSON(http.StatusCreated, toGoalResponse(goal))
}

// GetGoals handles GET /api/v1/goals
func (h *GoalHandler) GetGoals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	goals, err := h.goalService.GetGoals(c.Request().Context(), userID)
	if err != nil {
		return handleServiceError(c, err, userID, "Failed to get goals")
	}

	response := make([]GoalResponse, len(goals))
	for i, goal := range goals {
		response[i] = toGoalResponse(goal)
	}
	return c.JSON(http.StatusOK, response)
}

// GetGoal handles GET /api/v1/goals/:id
func (h *GoalHandler) GetGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	goal, err := h.goalService.GetGoalByID(c.Request().Context(), userID, id)
	if err != nil {
		return handleServiceError(c, err, userID, "Failed to get goal")
	}
	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// UpdateGoal handles PUT /api/v1/goals/:id
func (h *GoalHandler) UpdateGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	input, err := bindGoalInput(c)
	if err != nil {
		return respondFieldError(c, err)
	}

	goal, err := h.goalService.UpdateGoal(c.Request().Context(), userID, id, input)
	if err != nil {
		return handleServiceError(c, err, userID, "Failed to update goal")
	}

	log.Info().Str("user_id", userID).Str("goal_id", id.String()).Msg("Goal updated")
	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// UpdateProgress handles PATCH /api/v1/goals/:id/progress
func (h *GoalHandler) UpdateProgress(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	var req UpdateProgressRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	current, err := decimal.NewFromString(req.CurrentAmount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "currentAmount", Message: "Must be a valid decimal number"},
		})
	}

	goal, err := h.goalService.UpdateProgress(c.Request().Context(), userID, id, current)
	if err != nil {
		return handleServiceError(c, err, userID, "Failed to update goal progress")
	}
	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// DeleteGoal handles DELETE /api/v1/goals/:id
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	if err := h.goalService.DeleteGoal(c.Request().Context(), userID, id); err != nil {
		return handleServiceError(c, err, userID, "Failed to delete goal")
	}

	log.Info().Str("user_id", userID).Str("goal_id", id.String()).Msg("Goal deleted")
	return c.NoContent(http.StatusNoContent)
}

// bindGoalInput parses the request body. Domain validation is left to the service.
func bindGoalInput(c echo.Context) (service.GoalInput, error) {
	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return service.GoalInput{}, errInvalidBody
	}

	target, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		return service.GoalInput{}, &fieldError{detail: "Invalid amount", field: "targetAmount", message: "Must be a valid decimal number"}
	}

	current := decimal.Zero
	if req.CurrentAmount != "" {
		current, err = decimal.NewFromString(req.CurrentAmount)
		if err != nil {
			return service.GoalInput{}, &fieldError{detail: "Invalid amount", field: "currentAmount", message: "Must be a valid decimal number"}
		}
	}

	var deadline *time.Time
	if req.Deadline != nil && *req.Deadline != "" {
		parsed, err := time.Parse(dateLayout, *req.Deadline)
		if err != nil {
			return service.GoalInput{}, &fieldError{detail: "Invalid deadline", field: "deadline", message: "Must be in YYYY-MM-DD format"}
		}
		deadline = &parsed
	}

	return service.GoalInput{
		Title:         req.Title,
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      deadline,
	}, nil
}

func toGoalResponse(goal *domain.FinancialGoal) GoalResponse {
	resp := GoalResponse{
		ID:              goal.ID.String(),
		Title:           goal.Title,
		TargetAmount:    money(goal.TargetAmount),
		CurrentAmount:   money(goal.CurrentAmount),
		ProgressPercent: goal.ProgressPercent(),
		CreatedAt:       goal.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       goal.UpdatedAt.Format(time.RFC3339),
	}
	if goal.Deadline != nil {
		d := goal.Deadline.Format(dateLayout)
		resp.Deadline = &d
	}
	return resp
}
