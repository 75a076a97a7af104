package identity

import (
	"errors"
	"net/http"
)

// Domain errors for identity operations.
var (
	ErrUnauthorized = errors.New("invalid or missing credentials")
	ErrForbidden    = errors.New("role not permitted for this operation")
	ErrUnknownRole  = errors.New("unknown role")
)

// MapHTTPStatus maps identity domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrUnknownRole) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
