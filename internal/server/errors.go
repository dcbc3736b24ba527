package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/user-form-poc/internal/schemas"
	"github.com/jonathan/user-form-poc/internal/submission"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrBodyTooLarge indicates the request body exceeded the limit
type ErrBodyTooLarge struct {
	Limit int64
}

func (e *ErrBodyTooLarge) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		schemaErr     *schemas.ValidationError
		tooLarge      *ErrBodyTooLarge
		transportErr  *submission.TransportError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &transportErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
