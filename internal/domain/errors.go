package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidRequest    = errors.New("invalid request input")
	ErrInvalidState      = errors.New("operation not permitted in current state")
	ErrOutOfOrder        = errors.New("approval level submitted before its prerequisite")
	ErrDuplicate         = errors.New("duplicate record")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnauthorized      = errors.New("actor not authorized for this action")
)
