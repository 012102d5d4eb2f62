package posts

import (
	"context"

	"Quill/internal/core/authz"
)

// Service defines the business logic interface for posts
type Service interface {
	// ListPosts returns one page of posts, newest first.
	// Unknown groups or authors yield a NotFoundError.
	ListPosts(ctx context.Context, scope Scope, page int) (*Listing, error)

	// GetPost returns the post with its comments. ErrNotFound if absent.
	GetPost(ctx context.Context, id int64) (*PostDetail, error)

	// CreatePost requires an authenticated principal, who becomes the author.
	// Returns *ValidationError without persisting anything when the input is invalid.
	CreatePost(ctx context.Context, principal authz.Principal, input PostInput) (*Post, error)

	// GetPostForEdit applies the same checks as UpdatePost so the edit form can be shown.
	GetPostForEdit(ctx context.Context, principal authz.Principal, id int64) (*Post, error)

	// UpdatePost lets the author change text, group and image. The author never changes.
	// ErrUnauthorized for anonymous callers, ErrForbidden for anyone but the author.
	UpdatePost(ctx context.Context, principal authz.Principal, id int64, input PostInput) (*Post, error)

	// DeletePost removes a post (and its comments). Allowed for the author and administrators.
	DeletePost(ctx context.Context, principal authz.Principal, id int64) (*Post, error)
}

// Repository defines the data access interface for posts.
// Returned posts have Author and Group hydrated.
type Repository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id int64) (*Post, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id int64) error

	// List returns posts matching filter ordered by created_at DESC, id DESC
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Post, error)
	Count(ctx context.Context, filter Filter) (int, error)
}

// ImageStore validates and persists uploaded images
type ImageStore interface {
	// Validate checks the image header: an accepted format within the size limits
	Validate(filename string, data []byte) error
	// Save decodes and stores the image and returns its path relative to the media root.
	// Errors caused by the data itself wrap ErrInvalidImage.
	Save(ctx context.Context, filename string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
}
