package follows

import (
	"context"
	"fmt"
	"log/slog"

	"Quill/internal/core/authz"
	"Quill/internal/core/posts"
	"Quill/internal/core/users"
)

type followService struct {
	repo        Repository
	userService users.UserService
	postService posts.Service
}

// NewFollowService creates a new follow service
func NewFollowService(repo Repository, userService users.UserService, postService posts.Service) Service {
	return &followService{
		repo:        repo,
		userService: userService,
		postService: postService,
	}
}

// Follow moves the pair NotFollowing -> Following; every other case is a no-op
func (s *followService) Follow(ctx context.Context, principal authz.Principal, username string) (*users.User, error) {
	if !principal.IsAuthenticated() {
		return nil, ErrUnauthorized
	}

	target, err := s.userService.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if !authz.CanFollow(principal, target.ID) {
		slog.Debug("ignoring self-follow", "user", principal.Username)
		return target, nil
	}

	exists, err := s.repo.Exists(ctx, principal.UserID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check follow: %w", err)
	}
	if exists {
		return target, nil
	}

	created, err := s.repo.Create(ctx, principal.UserID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to follow: %w", err)
	}

	slog.Info("follow", "follower", principal.Username, "author", target.Username, "created", created)
	return target, nil
}

// Unfollow moves the pair Following -> NotFollowing; a missing edge is fine
func (s *followService) Unfollow(ctx context.Context, principal authz.Principal, username string) (*users.User, error) {
	if !principal.IsAuthenticated() {
		return nil, ErrUnauthorized
	}

	target, err := s.userService.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.Delete(ctx, principal.UserID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to unfollow: %w", err)
	}

	slog.Info("unfollow", "follower", principal.Username, "author", target.Username, "deleted", deleted)
	return target, nil
}

func (s *followService) IsFollowing(ctx context.Context, principal authz.Principal, authorID int64) (bool, error) {
	if !principal.IsAuthenticated() {
		return false, nil
	}
	return s.repo.Exists(ctx, principal.UserID, authorID)
}

// FeedFor lists posts by followed authors
func (s *followService) FeedFor(ctx context.Context, principal authz.Principal, page int) (*posts.Listing, error) {
	if !principal.IsAuthenticated() {
		return nil, ErrUnauthorized
	}
	return s.postService.ListPosts(ctx, posts.FollowedBy(principal.UserID), page)
}

func (s *followService) Counts(ctx context.Context, userID int64) (*Counts, error) {
	followers, err := s.repo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}
	following, err := s.repo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count following: %w", err)
	}
	return &Counts{Followers: followers, Following: following}, nil
}
