package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_StatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected int
	}{
		{
			name:     "validation maps to 422",
			err:      NewValidation(map[string]string{"name": "The name field is required"}),
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "conflict maps to 422",
			err:      NewConflict("email", "The email has already been taken", errors.New("duplicate key")),
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "auth maps to 401",
			err:      NewAuth("Email or password is incorrect"),
			expected: http.StatusUnauthorized,
		},
		{
			name:     "not found maps to 404",
			err:      NewNotFound("User not found"),
			expected: http.StatusNotFound,
		},
		{
			name:     "internal maps to 500",
			err:      NewInternal("internal server error", errors.New("boom")),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.StatusCode())
		})
	}
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "User not found", NewNotFound("User not found").Error())
	assert.Equal(t, "boom: db down", NewInternal("boom", errors.New("db down")).Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("db down")
	err := NewInternal("boom", cause)

	assert.True(t, errors.Is(err, cause))
}

func TestFrom(t *testing.T) {
	appErr := NewNotFound("User not found")

	// AppError anywhere in the chain is extracted as-is
	assert.Equal(t, appErr, From(appErr))
	assert.Equal(t, appErr, From(fmt.Errorf("failed to get user: %w", appErr)))

	// Anything else is treated as internal
	plain := From(errors.New("db down"))
	assert.Equal(t, InternalError, plain.Type)
	assert.Equal(t, http.StatusInternalServerError, plain.StatusCode())
}

func TestTypePredicates(t *testing.T) {
	wrapped := fmt.Errorf("failed to get user: %w", NewNotFound("User not found"))

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.False(t, IsValidation(wrapped))

	assert.True(t, IsConflict(NewConflict("email", "The email has already been taken", nil)))
	assert.True(t, IsValidation(NewValidation(map[string]string{"name": "The name field is required"})))
	assert.False(t, IsNotFound(errors.New("db down")))
}
