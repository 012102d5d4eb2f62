package web

import (
	"Quill/internal/core/authz"
	"Quill/internal/core/comments"
	"Quill/internal/core/follows"
	"Quill/internal/core/groups"
	"Quill/internal/core/pagination"
	"Quill/internal/core/posts"
	"Quill/internal/core/users"
)

// Layout is the data every page needs for the base template
type Layout struct {
	Viewer authz.Principal
	Title  string
	// Path is the current URL path, used to highlight navigation
	Path string
}

// ListingPage is the index, group, profile and follow feed pages
type ListingPage struct {
	Layout
	Group     *groups.Group
	Author    *users.User
	Counts    *follows.Counts
	Page      pagination.Page[*posts.Post]
	Following bool
	CanFollow bool
	// ShowGroupLinks is false on the group page, where every post is in the same group
	ShowGroupLinks bool
}

// PostPage is the post detail with comments and the comment form
type PostPage struct {
	Layout
	Post        *posts.Post
	Comments    []*comments.Comment
	CommentText string
	Errors      map[string]string
	AuthorPosts int
	CanEdit     bool
	CanDelete   bool
}

// PostFormPage is the create and edit form
type PostFormPage struct {
	Layout
	Groups       []*groups.Group
	Errors       map[string]string
	Text         string
	Group        string
	CurrentImage string
	PostID       int64
	IsEdit       bool
}

// AuthPage is the login and signup forms
type AuthPage struct {
	Layout
	Errors   map[string]string
	Username string
	Next     string
	// Error is a form-wide message such as bad credentials
	Error string
}
