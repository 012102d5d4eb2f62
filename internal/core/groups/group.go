// Package groups manages the categories posts can be filed under.
package groups

import "time"

// Group is an administrator-defined category with a unique slug
type Group struct {
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	Title       string    `json:"title" db:"title"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	ID          int64     `json:"id" db:"id"`
}

func (g *Group) String() string {
	if g == nil {
		return ""
	}
	return g.Title
}

// CreateGroupRequest is the input for creating a group
type CreateGroupRequest struct {
	Title       string
	Slug        string
	Description string
}
