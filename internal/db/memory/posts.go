package memory

import (
	"context"
	"sort"

	"Quill/internal/core/posts"
)

type postRepo struct {
	db *DB
}

func (r *postRepo) Create(_ context.Context, post *posts.Post) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	post.ID = r.db.id()
	post.CreatedAt = r.db.now()
	stored := *post
	r.db.posts[post.ID] = &stored
	return nil
}

func (r *postRepo) GetByID(_ context.Context, id int64) (*posts.Post, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.posts[id]
	if !ok {
		return nil, posts.ErrNotFound
	}
	return r.hydrate(p), nil
}

func (r *postRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	_, ok := r.db.posts[id]
	return ok, nil
}

// Update stores text, group and image; author and creation time are kept
func (r *postRepo) Update(_ context.Context, post *posts.Post) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.posts[post.ID]
	if !ok {
		return posts.ErrNotFound
	}
	p.Text = post.Text
	p.Image = post.Image
	if post.GroupID != nil {
		gid := *post.GroupID
		p.GroupID = &gid
	} else {
		p.GroupID = nil
	}
	return nil
}

// Delete removes the post and its comments
func (r *postRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.posts[id]; !ok {
		return posts.ErrNotFound
	}
	delete(r.db.posts, id)
	for cid, c := range r.db.comments {
		if c.PostID == id {
			delete(r.db.comments, cid)
		}
	}
	return nil
}

func (r *postRepo) List(_ context.Context, filter posts.Filter, limit, offset int) ([]*posts.Post, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	matched := r.filter(filter)
	if offset >= len(matched) {
		return []*posts.Post{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	result := make([]*posts.Post, 0, end-offset)
	for _, p := range matched[offset:end] {
		result = append(result, r.hydrate(p))
	}
	return result, nil
}

func (r *postRepo) Count(_ context.Context, filter posts.Filter) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return len(r.filter(filter)), nil
}

// filter returns matching posts newest first; callers hold the read lock
func (r *postRepo) filter(filter posts.Filter) []*posts.Post {
	var matched []*posts.Post
	for _, p := range r.db.posts {
		if filter.GroupID > 0 && (p.GroupID == nil || *p.GroupID != filter.GroupID) {
			continue
		}
		if filter.AuthorID > 0 && p.AuthorID != filter.AuthorID {
			continue
		}
		if filter.FollowerID > 0 {
			if _, ok := r.db.follows[followKey{userID: filter.FollowerID, authorID: p.AuthorID}]; !ok {
				continue
			}
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return matched
}

// hydrate copies the post and fills author and group; callers hold the read lock
func (r *postRepo) hydrate(p *posts.Post) *posts.Post {
	cp := *p
	if u, ok := r.db.users[p.AuthorID]; ok {
		cp.Author = u.Username
	}
	cp.Group = nil
	if p.GroupID != nil {
		gid := *p.GroupID
		cp.GroupID = &gid
		if g, ok := r.db.groups[gid]; ok {
			cp.Group = &posts.GroupRef{Title: g.Title, Slug: g.Slug}
		} else {
			// group gone: behave like ON DELETE SET NULL
			cp.GroupID = nil
		}
	}
	return &cp
}
