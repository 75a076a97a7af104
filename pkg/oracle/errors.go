package oracle

import "errors"

// ErrEmptyResponse indicates the provider returned no completion choices.
var ErrEmptyResponse = errors.New("oracle returned no choices")
