package memory

import (
	"context"
	"sort"

	"Quill/internal/core/comments"
)

type commentRepo struct {
	db *DB
}

func (r *commentRepo) Create(_ context.Context, comment *comments.Comment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	comment.ID = r.db.id()
	comment.CreatedAt = r.db.now()
	stored := *comment
	r.db.comments[comment.ID] = &stored
	return nil
}

// ListByPost returns comments oldest first
func (r *commentRepo) ListByPost(_ context.Context, postID int64) ([]*comments.Comment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	result := []*comments.Comment{}
	for _, c := range r.db.comments {
		if c.PostID != postID {
			continue
		}
		cp := *c
		if u, ok := r.db.users[c.AuthorID]; ok {
			cp.Author = u.Username
		}
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
