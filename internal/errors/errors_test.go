package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Chain(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(cause, ErrCodeUnavailable, "catalog offline")

	assert.Equal(t, "catalog offline: dial tcp: refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "plain", New(ErrCodeInternal, "plain").Error())
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "x"))

	wrapped := fmt.Errorf("list templates: %w", err)
	assert.True(t, IsUnavailable(wrapped))
	assert.False(t, Is(wrapped, ErrCodeNotFound))
	assert.Equal(t, ErrCodeUnavailable, GetCode(wrapped))
	assert.Equal(t, ErrorCode(""), GetCode(cause))
	assert.Empty(t, GetField(cause))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrCodeNotFound:    http.StatusNotFound,
		ErrCodeConflict:    http.StatusConflict,
		ErrCodeValidation:  http.StatusBadRequest,
		ErrCodeForeignKey:  http.StatusBadRequest,
		ErrCodeUnavailable: http.StatusServiceUnavailable,
		ErrCodeTimeout:     http.StatusGatewayTimeout,
		ErrCodeCanceled:    499,
		ErrCodeInternal:    http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(New(code, "x")), code)
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}
