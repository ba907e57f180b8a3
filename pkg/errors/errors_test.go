package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", NewValidationError("email", "must be a valid address"), http.StatusBadRequest},
		{"not found", NewNotFoundError("user", "user not found: id=u-1"), http.StatusNotFound},
		{"conflict", NewConflictError("words", "word list changed concurrently"), http.StatusConflict},
		{"internal", NewInternalError("storage unavailable", nil), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var statuser HTTPStatuser
			assert.True(t, errors.As(tc.err, &statuser))
			assert.Equal(t, tc.status, statuser.HTTPStatus())
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "validation failed: email - required", NewValidationError("email", "required").Error())
	assert.Equal(t, "validation failed: bad input", NewValidationError("", "bad input").Error())
	assert.Equal(t, "user not found: id=u-1", NewNotFoundError("user", "user not found: id=u-1").Error())
	assert.Equal(t, "user not found", NewNotFoundError("user", "").Error())
	assert.Equal(t, "words conflict", NewConflictError("words", "").Error())
}

func TestInternalErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError("storage call failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage call failed: connection reset", err.Error())
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("remove word: %w", NewConflictError("words", "word list changed concurrently"))

	var conflict *ConflictError
	assert.True(t, errors.As(wrapped, &conflict))
	assert.Equal(t, http.StatusConflict, conflict.HTTPStatus())
}
