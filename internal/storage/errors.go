package storage

import "errors"

// Common errors for context store operations.
var (
	ErrInvalidSessionID = errors.New("session id cannot be empty")
	ErrSessionNotFound  = errors.New("session not found")
)
