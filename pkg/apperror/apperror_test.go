package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("bad_input", "nope"), http.StatusBadRequest},
		{Authorization("no"), http.StatusForbidden},
		{NotFound("missing", "gone"), http.StatusNotFound},
		{Conflict("already_decided", "too late"), http.StatusConflict},
		{Persistence("db down", errors.New("dial tcp")), http.StatusInternalServerError},
		{errors.New("some plain error"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(tc.err))
	}
}

func TestFromPreservesWrappedError(t *testing.T) {
	inner := Conflict("insufficient_stock", "would go negative")
	wrapped := fmt.Errorf("approving adjustment: %w", inner)

	got := From(wrapped)
	assert.Equal(t, KindConflict, got.Kind)
	assert.Equal(t, "insufficient_stock", got.Code)

	assert.True(t, IsKind(wrapped, KindConflict))
	assert.False(t, IsKind(wrapped, KindValidation))
}

func TestPersistenceUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Persistence("storage failed", cause)
	assert.ErrorIs(t, err, cause)
}
