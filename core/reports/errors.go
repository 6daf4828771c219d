package reports

import "errors"

// Business error kinds. All are recoverable and surfaced verbatim to the
// caller; none are retried internally (retrying cannot change the outcome).
var (
	ErrUnauthorized       = errors.New("not permitted")
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrNotFound           = errors.New("report not found")
	ErrInvalidTitle       = errors.New("title must be between 5 and 200 characters")
	ErrInvalidDescription = errors.New("description must be at least 20 characters")
	ErrInvalidType        = errors.New("unknown incident type")
	ErrMissingLocation    = errors.New("location coordinates are required")
	ErrConflict           = errors.New("report was modified concurrently")
	ErrInvalidMedia       = errors.New("invalid media reference")
)
