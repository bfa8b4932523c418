package domain

import "errors"

// Sentinel errors shared across the service.
var (
	// ErrTaskNotFound indicates the task does not exist in the primary store.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidRequest indicates a malformed search or sync request.
	ErrInvalidRequest = errors.New("invalid request")
)
