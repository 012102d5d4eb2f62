// Package follows manages directed follow edges between users and the feed they produce.
package follows

import "time"

// Follow is a directed edge from a follower (UserID) to an author (AuthorID).
// Each pair exists at most once and UserID never equals AuthorID.
type Follow struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
}

// Counts are the follower/following totals shown on a profile
type Counts struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}
