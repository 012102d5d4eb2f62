package comments

import (
	"context"

	"Quill/internal/core/authz"
)

// Service defines the business logic for comments
type Service interface {
	// AddComment stores a comment by the principal on the post.
	// ErrUnauthorized for anonymous principals, ErrPostNotFound for unknown posts,
	// *ValidationError for empty text.
	AddComment(ctx context.Context, principal authz.Principal, postID int64, input CommentInput) (*Comment, error)

	// ListForPost returns the post's comments oldest first
	ListForPost(ctx context.Context, postID int64) ([]*Comment, error)
}

// Repository defines the data access interface for comments
type Repository interface {
	Create(ctx context.Context, comment *Comment) error
	// ListByPost returns comments ordered by created_at ASC, id ASC
	ListByPost(ctx context.Context, postID int64) ([]*Comment, error)
}

// PostLookup is the slice of the post repository the comment service needs
type PostLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}
