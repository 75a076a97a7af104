package triage

import "errors"

// ErrInvalidCategory indicates a category value outside the fixed set.
var ErrInvalidCategory = errors.New("unknown issue category")
