package posts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for common post operations
var (
	// ErrNotFound is returned when a post is not found by ID
	ErrNotFound = errors.New("post not found")

	// ErrUnauthorized is returned for write attempts by anonymous principals
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden is returned when an authenticated user acts on a post they do not own
	ErrForbidden = errors.New("not allowed to modify this post")

	// ErrInvalidImage is wrapped by ImageStore errors caused by the upload itself
	ErrInvalidImage = errors.New("invalid image")
)

// Form error messages
const (
	MsgRequired     = "This field is required."
	MsgInvalidGroup = "Select a valid choice. That choice is not one of the available choices."
	MsgInvalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

// FieldErrors maps form field names to messages
type FieldErrors map[string]string

// ValidationError is returned when a form has field errors; nothing was persisted
type ValidationError struct {
	Fields FieldErrors
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

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string // e.g., "group", "author"
	ID       string // Resource identifier
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr) || errors.Is(err, ErrNotFound)
}
