package comments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"Quill/internal/core/authz"
)

type commentService struct {
	repo  Repository
	posts PostLookup
}

// NewCommentService creates a new comment service
func NewCommentService(repo Repository, posts PostLookup) Service {
	return &commentService{
		repo:  repo,
		posts: posts,
	}
}

// AddComment checks authentication first, then the post, then the text
func (s *commentService) AddComment(ctx context.Context, principal authz.Principal, postID int64, input CommentInput) (*Comment, error) {
	if !authz.CanCreate(principal) {
		return nil, ErrUnauthorized
	}

	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up post: %w", err)
	}
	if !exists {
		return nil, ErrPostNotFound
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, &ValidationError{Fields: map[string]string{"text": "This field is required."}}
	}

	comment := &Comment{
		PostID:   postID,
		AuthorID: principal.UserID,
		Author:   principal.Username,
		Text:     text,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	slog.Debug("comment created", "post_id", postID, "comment_id", comment.ID, "author", principal.Username)
	return comment, nil
}

// ListForPost returns comments oldest first
func (s *commentService) ListForPost(ctx context.Context, postID int64) ([]*Comment, error) {
	list, err := s.repo.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return list, nil
}
