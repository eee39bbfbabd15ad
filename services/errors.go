package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an id or label addresses no live task.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed or missing input fields.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
