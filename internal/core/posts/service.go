package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"Quill/internal/core/authz"
	"Quill/internal/core/comments"
	"Quill/internal/core/groups"
	"Quill/internal/core/pagination"
	"Quill/internal/core/users"
)

type postService struct {
	repo           Repository
	groupService   groups.Service
	userService    users.UserService
	commentService comments.Service
	images         ImageStore
	pageSize       int
}

// NewPostService creates a new post service
// images can be nil, in which case image uploads fail validation
func NewPostService(
	repo Repository,
	groupService groups.Service,
	userService users.UserService,
	commentService comments.Service,
	images ImageStore, // Optional: can be nil
	pageSize int,
) Service {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &postService{
		repo:           repo,
		groupService:   groupService,
		userService:    userService,
		commentService: commentService,
		images:         images,
		pageSize:       pageSize,
	}
}

// ListPosts resolves the scope to a repository filter and fetches one page
func (s *postService) ListPosts(ctx context.Context, scope Scope, page int) (*Listing, error) {
	listing := &Listing{}
	var filter Filter

	switch scope.Kind {
	case ScopeAll:
	case ScopeGroup:
		group, err := s.groupService.GetGroupBySlug(ctx, scope.GroupSlug)
		if err != nil {
			if groups.IsNotFound(err) {
				return nil, NewNotFoundError("group", scope.GroupSlug)
			}
			return nil, fmt.Errorf("failed to resolve group: %w", err)
		}
		listing.Group = group
		filter.GroupID = group.ID
	case ScopeAuthor:
		author, err := s.userService.GetUserByUsername(ctx, scope.Username)
		if err != nil {
			if users.IsNotFound(err) {
				return nil, NewNotFoundError("author", scope.Username)
			}
			return nil, fmt.Errorf("failed to resolve author: %w", err)
		}
		listing.Author = author
		filter.AuthorID = author.ID
	case ScopeFollowedBy:
		if scope.FollowerID <= 0 {
			return nil, ErrUnauthorized
		}
		filter.FollowerID = scope.FollowerID
	default:
		return nil, fmt.Errorf("unknown listing scope %d", scope.Kind)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	window := pagination.Compute(total, s.pageSize, page)
	var items []*Post
	if window.Limit > 0 {
		items, err = s.repo.List(ctx, filter, window.Limit, window.Offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list posts: %w", err)
		}
	}

	listing.Page = pagination.FromWindow(items, window)
	return listing, nil
}

// GetPost returns the post and its comments
func (s *postService) GetPost(ctx context.Context, id int64) (*PostDetail, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	list, err := s.commentService.ListForPost(ctx, id)
	if err != nil {
		return nil, err
	}

	return &PostDetail{Post: post, Comments: list}, nil
}

// CreatePost validates the form, stores the image and persists the post
func (s *postService) CreatePost(ctx context.Context, principal authz.Principal, input PostInput) (*Post, error) {
	if !authz.CanCreate(principal) {
		return nil, ErrUnauthorized
	}

	text, group, err := s.validateInput(ctx, input)
	if err != nil {
		return nil, err
	}

	post := &Post{
		AuthorID: principal.UserID,
		Author:   principal.Username,
		Text:     text,
	}
	applyGroup(post, group)

	if input.Image != nil {
		path, err := s.saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		post.Image = path
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.discardImage(ctx, post.Image)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created", "post_id", post.ID, "author", principal.Username, "group_id", post.GroupID)
	return post, nil
}

// GetPostForEdit loads a post the principal is allowed to edit
func (s *postService) GetPostForEdit(ctx context.Context, principal authz.Principal, id int64) (*Post, error) {
	if !principal.IsAuthenticated() {
		return nil, ErrUnauthorized
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !authz.CanEdit(principal, post) {
		return nil, ErrForbidden
	}
	return post, nil
}

// UpdatePost changes text, group and image of the principal's own post
func (s *postService) UpdatePost(ctx context.Context, principal authz.Principal, id int64, input PostInput) (*Post, error) {
	post, err := s.GetPostForEdit(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	text, group, err := s.validateInput(ctx, input)
	if err != nil {
		return nil, err
	}

	oldImage := post.Image
	post.Text = text
	applyGroup(post, group)

	switch {
	case input.Image != nil:
		path, err := s.saveImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		post.Image = path
	case input.ClearImage:
		post.Image = ""
	}

	if err := s.repo.Update(ctx, post); err != nil {
		if post.Image != oldImage {
			s.discardImage(ctx, post.Image)
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	if oldImage != "" && oldImage != post.Image {
		s.discardImage(ctx, oldImage)
	}

	slog.Info("post updated", "post_id", post.ID, "author", principal.Username)
	return post, nil
}

// DeletePost removes the post if the principal is its author or an administrator
func (s *postService) DeletePost(ctx context.Context, principal authz.Principal, id int64) (*Post, error) {
	if !principal.IsAuthenticated() {
		return nil, ErrUnauthorized
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !authz.CanDelete(principal, post) {
		return nil, ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete post: %w", err)
	}
	s.discardImage(ctx, post.Image)

	slog.Info("post deleted", "post_id", id, "by", principal.Username, "admin", principal.IsAdmin && !principal.Is(post.AuthorID))
	return post, nil
}

// validateInput collects every field error before returning, so the form can show them all
func (s *postService) validateInput(ctx context.Context, input PostInput) (string, *groups.Group, error) {
	fields := FieldErrors{}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		fields["text"] = MsgRequired
	}

	var group *groups.Group
	if raw := strings.TrimSpace(input.Group); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fields["group"] = MsgInvalidGroup
		} else {
			group, err = s.groupService.GetGroup(ctx, id)
			if err != nil {
				if !groups.IsNotFound(err) {
					return "", nil, fmt.Errorf("failed to look up group: %w", err)
				}
				fields["group"] = MsgInvalidGroup
			}
		}
	}

	if input.Image != nil {
		if s.images == nil {
			fields["image"] = "Image uploads are disabled."
		} else if err := s.images.Validate(input.Image.Filename, input.Image.Data); err != nil {
			fields["image"] = MsgInvalidImage
		}
	}

	if len(fields) > 0 {
		return "", nil, &ValidationError{Fields: fields}
	}
	return text, group, nil
}

// saveImage stores the upload; a body that fails to decode is reported as a form error
func (s *postService) saveImage(ctx context.Context, upload *ImageUpload) (string, error) {
	path, err := s.images.Save(ctx, upload.Filename, upload.Data)
	if err != nil {
		if errors.Is(err, ErrInvalidImage) {
			return "", &ValidationError{Fields: FieldErrors{"image": MsgInvalidImage}}
		}
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return path, nil
}

func (s *postService) discardImage(ctx context.Context, path string) {
	if path == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, path); err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("failed to delete post image", "path", path, "error", err)
	}
}

func applyGroup(post *Post, group *groups.Group) {
	if group == nil {
		post.GroupID = nil
		post.Group = nil
		return
	}
	id := group.ID
	post.GroupID = &id
	post.Group = &GroupRef{Title: group.Title, Slug: group.Slug}
}
