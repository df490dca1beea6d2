package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/fluxo/fluxo-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testUserID = "auth0|test"

// Helper to set up auth context the way Authenticate leaves it
func setupAuthContext(c echo.Context, userID string) {
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: userID,
		},
		CustomClaims: &middleware.CustomClaims{},
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
	c.SetRequest(c.Request().WithContext(ctx))
}

// newContext builds an authenticated echo context. body may be empty.
func newContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, testUserID)
	return c, rec
}

// decodeProblem fails unless the body holds exactly one Problem Details document
func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem), "body: %s", rec.Body.String())
	return problem
}

// problemField returns the field of the first validation error, or "" if none
func problemField(problem ProblemDetails) string {
	if len(problem.Errors) == 0 {
		return ""
	}
	return problem.Errors[0].Field
}
