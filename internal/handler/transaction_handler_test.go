package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/domain"
	"github.com/dafibh/fluxo/fluxo-backend/internal/service"
	"github.com/dafibh/fluxo/fluxo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTransactionHandler() (*TransactionHandler, *testutil.MockTransactionRepository) {
	repo := testutil.NewMockTransactionRepository()
	return NewTransactionHandler(service.NewTransactionService(repo)), repo
}

func seedTransaction(repo *testutil.MockTransactionRepository, userID string) *domain.Transaction {
	tx := &domain.Transaction{
		ID:              uuid.New(),
		UserID:          userID,
		Type:            domain.TransactionTypeExpense,
		Amount:          decimal.NewFromInt(80),
		Description:     "Office rent",
		Category:        domain.CategoryRent,
		TransactionDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	repo.AddTransaction(tx)
	return tx
}

func TestCreateTransaction_Success(t *testing.T) {
	e := echo.New()
	h, repo := setupTransactionHandler()

	body := `{"type": "income", "amount": "1500.5", "description": "Invoice 42", "category": "sales", "date": "2024-03-10"}`
	c, rec := newContext(e, http.MethodPost, "/api/v1/transactions", body)

	require.NoError(t, h.CreateTransaction(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var response TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "1500.50", response.Amount)
	assert.Equal(t, "income", response.Type)
	assert.Equal(t, "sales", response.Category)
	assert.Equal(t, "2024-03-10", response.TransactionDate)
	assert.Len(t, repo.Transactions, 1)
}

func TestCreateTransaction_DefaultsCategoryToOther(t *testing.T) {
	e := echo.New()
	h, _ := setupTransactionHandler()

	body := `{"type": "expense", "amount": "10", "description": "Misc"}`
	c, rec := newContext(e, http.MethodPost, "/api/v1/transactions", body)

	require.NoError(t, h.CreateTransaction(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var response TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "other", response.Category)
}

func TestCreateTransaction_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"bad amount", `{"type": "income", "amount": "abc", "description": "x"}`, "amount"},
		{"zero amount", `{"type": "income", "amount": "0", "description": "x"}`, "amount"},
		{"negative amount", `{"type": "expense", "amount": "-5", "description": "x"}`, "amount"},
		{"bad type", `{"type": "transfer", "amount": "10", "description": "x"}`, "type"},
		{"missing description", `{"type": "income", "amount": "10", "description": "  "}`, "description"},
		{"unknown category", `{"type": "income", "amount": "10", "description": "x", "category": "crypto"}`, "category"},
		{"bad date", `{"type": "income", "amount": "10", "description": "x", "date": "10/03/2024"}`, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			h, repo := setupTransactionHandler()
			c, rec := newContext(e, http.MethodPost, "/api/v1/transactions", tt.body)

			require.NoError(t, h.CreateTransaction(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var problem ProblemDetails
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, ErrorTypeValidation, problem.Type)
			require.Len(t, problem.Errors, 1)
			assert.Equal(t, tt.field, problem.Errors[0].Field)
			assert.Empty(t, repo.Transactions)
		})
	}
}

func TestCreateTransaction_Unauthenticated(t *testing.T) {
	e := echo.New()
	h, _ := setupTransactionHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.CreateTransaction(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetTransactions_FiltersAndPagination(t *testing.T) {
	e := echo.New()
	h, repo := setupTransactionHandler()
	seedTransaction(repo, testUserID)
	seedTransaction(repo, testUserID)
	seedTransaction(repo, "auth0|someone-else")

	c, rec := newContext(e, http.MethodGet, "/api/v1/transactions?type=expense&category=rent&page=1&pageSize=1", "")

	require.NoError(t, h.GetTransactions(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response PaginatedTransactionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Len(t, response.Data, 1)
	assert.Equal(t, int64(2), response.TotalItems)
	assert.Equal(t, int32(1), response.PageSize)
}

func TestGetTransactions_InvalidQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"bad type", "type=transfer"},
		{"bad category", "category=crypto"},
		{"bad start date", "startDate=2024-13-01"},
		{"bad end date", "endDate=yesterday"},
		{"bad page", "page=0"},
		{"bad page size", "pageSize=-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			h, _ := setupTransactionHandler()
			c, rec := newContext(e, http.MethodGet, "/api/v1/transactions?"+tt.query, "")

			require.NoError(t, h.GetTransactions(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetTransaction_NotFoundForOtherUser(t *testing.T) {
	e := echo.New()
	h, repo := setupTransactionHandler()
	tx := seedTransaction(repo, "auth0|someone-else")

	c, rec := newContext(e, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(tx.ID.String())

	require.NoError(t, h.GetTransaction(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "Transaction not found", problem.Detail)
}

func TestGetTransaction_InvalidID(t *testing.T) {
	e := echo.New()
	h, _ := setupTransactionHandler()

	c, rec := newContext(e, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.GetTransaction(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTransaction_Success(t *testing.T) {
	e := echo.New()
	h, repo := setupTransactionHandler()
	tx := seedTransaction(repo, testUserID)

	body := `{"type": "expense", "amount": "95.00", "description": "Office rent (adjusted)", "category": "fixed", "date": "2024-03-06"}`
	c, rec := newContext(e, http.MethodPut, "/", body)
	c.SetParamNames("id")
	c.SetParamValues(tx.ID.String())

	require.NoError(t, h.UpdateTransaction(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "95.00", response.Amount)
	assert.Equal(t, "fixed", response.Category)
	assert.Equal(t, "2024-03-06", response.TransactionDate)
}

func TestUpdateTransaction_MissingDate(t *testing.T) {
	e := echo.New()
	h, repo := setupTransactionHandler()
	tx := seedTransaction(repo, testUserID)

	body := `{"type": "expense", "amount": "95.00", "description": "x", "category": "fixed"}`
	c, rec := newContext(e, http.MethodPut, "/", body)
	c.SetParamNames("id")
	c.SetParamValues(tx.ID.String())

	require.NoError(t, h.UpdateTransaction(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTransaction_FieldError(t *testing.T) {
	e := echo.New()
	h, repo := setupTransactionHandler()
	tx := seedTransaction(repo, testUserID)

	body := `{"type": "expense", "amount": "95.00", "description": "x", "category": "crypto", "date": "2024-03-06"}`
	c, rec := newContext(e, http.MethodPut, "/", body)
	c.SetParamNames("id")
	c.SetParamValues(tx.ID.String())

	require.NoError(t, h.UpdateTransaction(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	problem := decodeProblem(t, rec)
	assert.Equal(t, "category", problemField(problem))
	assert.Equal(t, domain.CategoryRent, repo.Transactions[tx.ID].Category)
}

func TestDeleteTransaction(t *testing.T) {
	e := echo.New()
	h, repo := setupTransactionHandler()
	tx := seedTransaction(repo, testUserID)

	c, rec := newContext(e, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(tx.ID.String())

	require.NoError(t, h.DeleteTransaction(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// second delete finds nothing
	c, rec = newContext(e, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(tx.ID.String())

	require.NoError(t, h.DeleteTransaction(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
