package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/user-form-poc/internal/schemas"
	"github.com/jonathan/user-form-poc/internal/submission"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "body", Message: "invalid JSON"}
	assert.Equal(t, "validation error: body - invalid JSON", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrBodyTooLarge(t *testing.T) {
	err := &ErrBodyTooLarge{Limit: 10}
	assert.Equal(t, "request body exceeds 10 bytes", err.Error())
	assert.Equal(t, http.StatusRequestEntityTooLarge, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"schema", &schemas.ValidationError{}, http.StatusBadRequest},
		{"wrapped schema", fmt.Errorf("payload: %w", &schemas.ValidationError{}), http.StatusBadRequest},
		{"transport", &submission.TransportError{Message: "x"}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
