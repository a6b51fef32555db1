package snapshot

import "errors"

// Store-related errors
var (
	ErrStoreClosed  = errors.New("snapshot store is closed")
	ErrWriteTimeout = errors.New("snapshot write timed out")
)
