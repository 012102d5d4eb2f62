package users

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for common user operations
var (
	// ErrUserNotFound is returned when a user lookup finds no matching record
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when registering a username that belongs to another user
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned by Authenticate for any credential mismatch
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError carries per-field messages for the signup form
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation error (" + strings.Join(parts, "; ") + ")"
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}
