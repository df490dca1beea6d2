package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/dafibh/fluxo/fluxo-backend/internal/service"
	"github.com/dafibh/fluxo/fluxo-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGoalHandler() (*GoalHandler, *testutil.MockGoalRepository) {
	repo := testutil.NewMockGoalRepository()
	return NewGoalHandler(service.NewGoalService(repo)), repo
}

func seedGoal(repo *testutil.MockGoalRepository) *domain.FinancialGoal {
	goal := &domain.FinancialGoal{
		UserID:        testUserID,
		Title:         "New laptop",
		TargetAmount:  decimal.NewFromInt(2000),
		CurrentAmount: decimal.NewFromInt(500),
	}
	repo.AddGoal(goal)
	return goal
}

func TestCreateGoal_Success(t *testing.T) {
	e := echo.New()
	h, _ := setupGoalHandler()

	body := `{"title": "Emergency fund", "targetAmount": "3000", "currentAmount": "750", "deadline": "2025-12-31"}`
	c, rec := newContext(e, http.MethodPost, "/api/v1/goals", body)

	require.NoError(t, h.CreateGoal(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var response GoalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Emergency fund", response.Title)
	assert.Equal(t, "3000.00", response.TargetAmount)
	assert.Equal(t, 25, response.ProgressPercent)
	require.NotNil(t, response.Deadline)
	assert.Equal(t, "2025-12-31", *response.Deadline)
}

func TestCreateGoal_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing title", `{"title": "", "targetAmount": "100"}`, "title"},
		{"bad target", `{"title": "x", "targetAmount": "lots"}`, "targetAmount"},
		{"zero target", `{"title": "x", "targetAmount": "0"}`, ""},
		{"negative current", `{"title": "x", "targetAmount": "100", "currentAmount": "-1"}`, ""},
		{"bad current", `{"title": "x", "targetAmount": "100", "currentAmount": "some"}`, "currentAmount"},
		{"bad deadline", `{"title": "x", "targetAmount": "100", "deadline": "soon"}`, "deadline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			h, repo := setupGoalHandler()
			c, rec := newContext(e, http.MethodPost, "/api/v1/goals", tt.body)

			require.NoError(t, h.CreateGoal(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			problem := decodeProblem(t, rec)
			assert.Equal(t, ErrorTypeValidation, problem.Type)
			assert.Equal(t, tt.field, problemField(problem))
			assert.Empty(t, repo.Goals)
		})
	}
}

func TestGetGoals(t *testing.T) {
	e := echo.New()
	h, repo := setupGoalHandler()
	seedGoal(repo)

	c, rec := newContext(e, http.MethodGet, "/api/v1/goals", "")
	require.NoError(t, h.GetGoals(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response []GoalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, 25, response[0].ProgressPercent)
}

func TestUpdateProgress(t *testing.T) {
	e := echo.New()
	h, repo := setupGoalHandler()
	goal := seedGoal(repo)

	c, rec := newContext(e, http.MethodPatch, "/", `{"currentAmount": "1500"}`)
	c.SetParamNames("id")
	c.SetParamValues(goal.ID.String())

	require.NoError(t, h.UpdateProgress(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response GoalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "1500.00", response.CurrentAmount)
	assert.Equal(t, 75, response.ProgressPercent)
}

func TestUpdateProgress_Negative(t *testing.T) {
	e := echo.New()
	h, repo := setupGoalHandler()
	goal := seedGoal(repo)

	c, rec := newContext(e, http.MethodPatch, "/", `{"currentAmount": "-10"}`)
	c.SetParamNames("id")
	c.SetParamValues(goal.ID.String())

	require.NoError(t, h.UpdateProgress(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteGoal_NotFound(t *testing.T) {
	e := echo.New()
	h, _ := setupGoalHandler()

	c, rec := newContext(e, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("6f1c1c8e-6a43-4f4a-9a64-0a4d8c3d2b11")

	require.NoError(t, h.DeleteGoal(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "Goal not found", problem.Detail)
}
