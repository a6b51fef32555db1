package processor

import "errors"

// Processor-specific error types
var (
	ErrAlreadyRunning = errors.New("processor is already running")
	ErrNotRunning     = errors.New("processor is not running")
	ErrQueueFull      = errors.New("event queue is full")
	ErrInvalidEvent   = errors.New("invalid event")
	ErrStateNotLoaded = errors.New("attendance state has not been loaded")
)
