package follows

import (
	"errors"

	"Quill/internal/core/users"
)

var (
	// ErrUnauthorized is returned when an anonymous principal follows, unfollows or asks for a feed
	ErrUnauthorized = errors.New("authentication required")

	// ErrSelfFollow is returned by repositories that reject user_id = author_id
	ErrSelfFollow = errors.New("users cannot follow themselves")
)

// IsNotFound checks if the follow target does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, users.ErrUserNotFound)
}
