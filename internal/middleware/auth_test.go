package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/memberhub/backend/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	tokenGenerator := auth.NewTokenGenerator("test-secret", time.Hour)

	validToken, err := tokenGenerator.GenerateToken(42)
	require.NoError(t, err)

	expiredToken, err := auth.NewTokenGenerator("test-secret", -time.Minute).GenerateToken(42)
	require.NoError(t, err)

	tests := []struct {
		name             string
		authHeader       string
		expectedStatus   int
		expectedBody     string
		expectedUserID   int
		expectNextCalled bool
	}{
		{
			name:             "valid bearer token",
			authHeader:       "Bearer " + validToken,
			expectedStatus:   http.StatusOK,
			expectedUserID:   42,
			expectNextCalled: true,
		},
		{
			name:             "lowercase bearer prefix",
			authHeader:       "bearer " + validToken,
			expectedStatus:   http.StatusOK,
			expectedUserID:   42,
			expectNextCalled: true,
		},
		{
			name:           "missing header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"message":"authentication required"}`,
		},
		{
			name:           "malformed header",
			authHeader:     "Token abc",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"message":"authentication required"}`,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer " + expiredToken,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"message":"invalid or expired token"}`,
		},
		{
			name:           "garbage token",
			authHeader:     "Bearer not.a.token",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"message":"invalid or expired token"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var gotUserID int
			var gotOK bool

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUserID, gotOK = GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(tokenGenerator)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectNextCalled, nextCalled)

			if tt.expectNextCalled {
				assert.True(t, gotOK)
				assert.Equal(t, tt.expectedUserID, gotUserID)
			} else {
				assert.JSONEq(t, tt.expectedBody, rec.Body.String())
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestGetUserID_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	userID, ok := GetUserID(req.Context())

	assert.False(t, ok)
	assert.Zero(t, userID)
}
