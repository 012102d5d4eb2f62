package groups

import (
	"context"
	"regexp"
	"strings"
)

const MaxTitleLength = 200

var slugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type groupService struct {
	repo Repository
}

// NewGroupService creates a new group service
func NewGroupService(repo Repository) Service {
	return &groupService{repo: repo}
}

// CreateGroup validates and stores a new group
func (s *groupService) CreateGroup(ctx context.Context, req CreateGroupRequest) (*Group, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)

	if req.Title == "" {
		return nil, NewValidationError("title", "title is required")
	}
	if len(req.Title) > MaxTitleLength {
		return nil, NewValidationError("title", "title must be at most 200 characters")
	}
	if !slugRegex.MatchString(req.Slug) {
		return nil, NewValidationError("slug", "slug may contain only letters, numbers, hyphens and underscores")
	}

	group := &Group{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupService) GetGroup(ctx context.Context, id int64) (*Group, error) {
	if id <= 0 {
		return nil, ErrGroupNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// GetGroupBySlug resolves a slug from a URL
func (s *groupService) GetGroupBySlug(ctx context.Context, slug string) (*Group, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrGroupNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

// ListGroups returns every group ordered by title, for the post form
func (s *groupService) ListGroups(ctx context.Context) ([]*Group, error) {
	return s.repo.List(ctx)
}
