package tasks

import "errors"

// Sentinel errors for task operations.
var (
	ErrEmptyText     = errors.New("task text is empty")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrTaskNotFound  = errors.New("task not found")
	ErrAmbiguousID   = errors.New("ambiguous task id")
)
