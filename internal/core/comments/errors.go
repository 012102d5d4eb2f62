package comments

import (
	"errors"
	"fmt"
)

var (
	// ErrPostNotFound indicates the commented post doesn't exist
	ErrPostNotFound = errors.New("post not found")

	// ErrUnauthorized indicates an anonymous principal tried to comment
	ErrUnauthorized = errors.New("authentication required")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return fmt.Sprintf("validation error (%s): %s", field, msg)
	}
	return "validation error"
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
