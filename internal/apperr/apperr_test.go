package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindUnauthorized: http.StatusUnauthorized,
		KindTokenInvalid: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindInternal:     http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, k.Status(), k.String())
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("db down")
	err := fmt.Errorf("load user: %w", Internal("query failed", cause))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindInternal, KindOf(err))

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, "query failed", e.Message)
	assert.Equal(t, "query failed: db down", e.Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindConflict, KindOf(Conflict("taken")))
}
