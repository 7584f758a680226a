package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without internal",
			err:  New(http.StatusNotFound, "not_found", "category 'Person' not found"),
			want: "not_found: category 'Person' not found",
		},
		{
			name: "with internal",
			err:  ErrDatabase.WithInternal(errors.New("connection refused")),
			want: "database_error: Database operation failed (connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWithInternalDoesNotMutate(t *testing.T) {
	inner := errors.New("boom")
	wrapped := ErrDatabase.WithInternal(inner)

	require.Nil(t, ErrDatabase.Internal, "sentinel must stay untouched")
	assert.Equal(t, inner, wrapped.Internal)
	assert.Equal(t, ErrDatabase.Code, wrapped.Code)
	assert.ErrorIs(t, wrapped, inner)
}

func TestWithMessage(t *testing.T) {
	custom := ErrBadRequest.WithMessage("entity_key is required")

	assert.Equal(t, "entity_key is required", custom.Message)
	assert.Equal(t, "bad_request", custom.Code)
	assert.Equal(t, "Invalid request", ErrBadRequest.Message, "sentinel must stay untouched")
}

func TestWithDetails(t *testing.T) {
	detailed := ErrValidation.WithDetails(map[string]any{"entity_key": "cat:person"})

	assert.Equal(t, "cat:person", detailed.Details["entity_key"])
	assert.Nil(t, ErrValidation.Details, "sentinel must stay untouched")
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("draft", "8e7f")
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "draft '8e7f' not found", err.Message)
}
