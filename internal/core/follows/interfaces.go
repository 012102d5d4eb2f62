package follows

import (
	"context"

	"Quill/internal/core/authz"
	"Quill/internal/core/posts"
	"Quill/internal/core/users"
)

// Service defines follow/unfollow and feed operations
type Service interface {
	// Follow creates the edge principal -> username. Following yourself or an author
	// you already follow is a silent no-op. Returns the resolved target.
	Follow(ctx context.Context, principal authz.Principal, username string) (*users.User, error)

	// Unfollow deletes the edge if present; a missing edge is not an error.
	Unfollow(ctx context.Context, principal authz.Principal, username string) (*users.User, error)

	// IsFollowing reports whether principal follows authorID; false for anonymous principals.
	IsFollowing(ctx context.Context, principal authz.Principal, authorID int64) (bool, error)

	// FeedFor returns a page of posts by authors the principal follows, newest first.
	FeedFor(ctx context.Context, principal authz.Principal, page int) (*posts.Listing, error)

	Counts(ctx context.Context, userID int64) (*Counts, error)
}

// Repository defines the data access interface for follow edges
type Repository interface {
	// Create inserts the edge; created is false when it already existed
	Create(ctx context.Context, userID, authorID int64) (created bool, err error)
	// Delete removes the edge; deleted is false when there was none
	Delete(ctx context.Context, userID, authorID int64) (deleted bool, err error)
	Exists(ctx context.Context, userID, authorID int64) (bool, error)
	CountFollowers(ctx context.Context, authorID int64) (int, error)
	CountFollowing(ctx context.Context, userID int64) (int, error)
}
