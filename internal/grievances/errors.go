package grievances

import (
	"errors"
	"net/http"
)

// Domain errors for grievance operations.
var (
	ErrNotFound          = errors.New("grievance not found")
	ErrConflict          = errors.New("grievance was modified by another request")
	ErrForbidden         = errors.New("role not permitted for this operation")
	ErrInvalidStatus     = errors.New("status must be PENDING, IN_PROGRESS, or RESOLVED")
	ErrInvalidRating     = errors.New("rating must be an integer between 1 and 5")
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	ErrTerminalState     = errors.New("grievance is resolved and cannot be modified")
	ErrNotResolvable     = errors.New("grievance must be in progress to resolve")
	ErrEvidenceRequired  = errors.New("resolution requires uploaded evidence")
	ErrNotResolved       = errors.New("grievance must be resolved to rate")
	ErrNoReviewPending   = errors.New("grievance has no pending review")
)

// MapHTTPStatus maps grievance domain errors to appropriate HTTP status codes.
// Precondition failures on otherwise well-formed requests map to 422.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidRating):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrTerminalState),
		errors.Is(err, ErrNotResolvable),
		errors.Is(err, ErrEvidenceRequired),
		errors.Is(err, ErrNotResolved),
		errors.Is(err, ErrNoReviewPending):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
