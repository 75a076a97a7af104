package sla

import "errors"

// ErrInvalidPriority indicates a priority value outside the fixed scale.
var ErrInvalidPriority = errors.New("priority must be CRITICAL, HIGH, MEDIUM, or LOW")
