package sentiment

import (
	"errors"
	"net/http"
)

// Domain errors for sentiment operations.
var (
	ErrInvalidDay      = errors.New("day must be formatted YYYY-MM-DD")
	ErrInvalidRange    = errors.New("from must not be after to")
	ErrInvalidPlatform = errors.New("platform is required")
	ErrMissingActivity = errors.New("at least one post is required")
)

// MapHTTPStatus maps sentiment domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidDay) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidPlatform) ||
		errors.Is(err, ErrMissingActivity) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
