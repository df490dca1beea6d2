package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	claims interface{}
	err    error
}

func (s stubValidator) ValidateToken(_ context.Context, _ string) (interface{}, error) {
	return s.claims, s.err
}

func validClaims(subject string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: subject},
		CustomClaims:     &CustomClaims{Email: "owner@example.com"},
	}
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		validator  stubValidator
		wantStatus int
		wantUser   string
	}{
		{"missing header", "", stubValidator{claims: validClaims("auth0|1")}, http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", stubValidator{claims: validClaims("auth0|1")}, http.StatusUnauthorized, ""},
		{"invalid token", "Bearer bad", stubValidator{err: errors.New("expired")}, http.StatusUnauthorized, ""},
		{"unexpected claims", "Bearer ok", stubValidator{claims: "nope"}, http.StatusUnauthorized, ""},
		{"empty subject", "Bearer ok", stubValidator{claims: validClaims("")}, http.StatusUnauthorized, ""},
		{"valid", "Bearer ok", stubValidator{claims: validClaims("auth0|1")}, http.StatusOK, "auth0|1"},
		{"case insensitive scheme", "bearer ok", stubValidator{claims: validClaims("auth0|2")}, http.StatusOK, "auth0|2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/dre", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seenUser string
			handler := func(c echo.Context) error {
				seenUser = GetUserID(c)
				return c.NoContent(http.StatusOK)
			}

			m := NewAuthMiddlewareWithValidator(tt.validator)
			require.NoError(t, m.Authenticate()(handler)(c))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, seenUser)

			if tt.wantStatus == http.StatusUnauthorized {
				var problem problemDetails
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
				assert.Equal(t, errorTypeUnauthorized, problem.Type)
				assert.Equal(t, "/api/v1/reports/dre", problem.Instance)
			}
		})
	}
}

func TestGetUserID(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name     string
		setup    func(c echo.Context)
		expected string
	}{
		{
			name: "returns user id when present",
			setup: func(c echo.Context) {
				ctx := context.WithValue(c.Request().Context(), UserIDKey, "auth0|12345")
				c.SetRequest(c.Request().WithContext(ctx))
			},
			expected: "auth0|12345",
		},
		{
			name:     "returns empty string when not present",
			setup:    func(c echo.Context) {},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			tt.setup(c)

			assert.Equal(t, tt.expected, GetUserID(c))
		})
	}
}

func TestGetCustomClaims(t *testing.T) {
	e := echo.New()

	t.Run("returns custom claims when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		ctx := context.WithValue(c.Request().Context(), ClaimsKey, validClaims("auth0|test"))
		c.SetRequest(c.Request().WithContext(ctx))

		require.NotNil(t, GetClaims(c))
		custom := GetCustomClaims(c)
		require.NotNil(t, custom)
		assert.Equal(t, "owner@example.com", custom.Email)
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		assert.Nil(t, GetClaims(c))
		assert.Nil(t, GetCustomClaims(c))
	})
}
