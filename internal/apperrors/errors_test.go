package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusByKind(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Unauthorized("who are you"), http.StatusUnauthorized},
		{Forbidden("not yours"), http.StatusForbidden},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("already delivered"), http.StatusConflict},
		{InsufficientStock("not enough"), http.StatusUnprocessableEntity},
		{Internal(errors.New("boom"), "db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.HTTPStatus(), tc.err.Error())
	}
}

func TestAsThroughWrapping(t *testing.T) {
	base := NotFound("item missing")
	wrapped := fmt.Errorf("while delivering: %w", base)

	typed := As(wrapped)
	assert.NotNil(t, typed)
	assert.Equal(t, KindNotFound, typed.Kind)

	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindConflict))
	assert.Nil(t, As(errors.New("plain")))
}

func TestInternalUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause, "failed to query")

	assert.ErrorIs(t, err, cause)
}
