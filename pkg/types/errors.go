package types

import "errors"

// Validation error types shared by the ingestion boundary and the processor.
var (
	ErrMissingUser   = errors.New("event user is required")
	ErrInvalidUserID = errors.New("user ID must be 1-50 characters, alphanumeric + underscore/hyphen only")
)
