package comments

import (
	"time"
)

// Comment is an append-only reply to a post. Comments have no threading.
type Comment struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Text      string    `json:"text" db:"text"`
	Author    string    `json:"author"` // hydrated from users.username
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"postId" db:"post_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
}

// CommentInput is the comment form
type CommentInput struct {
	Text string
}
