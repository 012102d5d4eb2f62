package posts

import (
	"time"

	"Quill/internal/core/comments"
	"Quill/internal/core/groups"
	"Quill/internal/core/pagination"
	"Quill/internal/core/users"
)

// Post is a text entry written by exactly one author, optionally filed under a group
type Post struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	GroupID   *int64    `json:"groupId,omitempty" db:"group_id"`
	Group     *GroupRef `json:"group,omitempty"`
	Text      string    `json:"text" db:"text"`
	Image     string    `json:"image,omitempty" db:"image"` // path relative to the media root
	Author    string    `json:"author"`                     // hydrated from users.username
	ID        int64     `json:"id" db:"id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
}

// AuthoredBy implements authz.Authored
func (p *Post) AuthoredBy() int64 {
	return p.AuthorID
}

// GroupRef is the minimal group info shown next to a post
type GroupRef struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// ImageUpload is an image file submitted with the post form
type ImageUpload struct {
	Filename string
	Data     []byte
}

// PostInput is the create/edit form. Group holds the submitted group ID, empty for none.
// There is deliberately no author field: the author always comes from the principal.
type PostInput struct {
	Image      *ImageUpload
	Text       string
	Group      string
	ClearImage bool
}

// PostDetail is a post together with its comments, oldest first
type PostDetail struct {
	Post     *Post
	Comments []*comments.Comment
}

// Listing is one page of posts plus the group or author the scope resolved to
type Listing struct {
	Group  *groups.Group
	Author *users.User
	Page   pagination.Page[*Post]
}

// ScopeKind selects which posts a listing returns
type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopeGroup
	ScopeAuthor
	ScopeFollowedBy
)

// Scope is the listing filter in terms the URL carries (slug, username, follower)
type Scope struct {
	GroupSlug  string
	Username   string
	Kind       ScopeKind
	FollowerID int64
}

// AllPosts lists every post
func AllPosts() Scope { return Scope{Kind: ScopeAll} }

// InGroup lists the posts filed under the group with this slug
func InGroup(slug string) Scope { return Scope{Kind: ScopeGroup, GroupSlug: slug} }

// ByAuthor lists the posts written by this user
func ByAuthor(username string) Scope { return Scope{Kind: ScopeAuthor, Username: username} }

// FollowedBy lists posts of every author the user follows
func FollowedBy(userID int64) Scope { return Scope{Kind: ScopeFollowedBy, FollowerID: userID} }

// Filter is the resolved repository predicate. Zero fields are ignored.
type Filter struct {
	GroupID    int64
	AuthorID   int64
	FollowerID int64
}
