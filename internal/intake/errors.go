package intake

import (
	"errors"
	"net/http"
)

// Domain errors for intake operations.
var (
	ErrEmptyBody        = errors.New("message body is empty")
	ErrMissingSender    = errors.New("sender is required")
	ErrUnknownRecipient = errors.New("no politician configured for this channel")
)

// MapHTTPStatus maps intake domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyBody) || errors.Is(err, ErrMissingSender) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUnknownRecipient) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
