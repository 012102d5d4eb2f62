package memory

import (
	"context"
	"sort"

	"Quill/internal/core/groups"
)

type groupRepo struct {
	db *DB
}

func (r *groupRepo) Create(_ context.Context, group *groups.Group) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, g := range r.db.groups {
		if g.Slug == group.Slug {
			return groups.ErrSlugTaken
		}
	}

	group.ID = r.db.id()
	group.CreatedAt = r.db.now()
	stored := *group
	r.db.groups[group.ID] = &stored
	return nil
}

func (r *groupRepo) GetByID(_ context.Context, id int64) (*groups.Group, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	g, ok := r.db.groups[id]
	if !ok {
		return nil, groups.ErrGroupNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *groupRepo) GetBySlug(_ context.Context, slug string) (*groups.Group, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, g := range r.db.groups {
		if g.Slug == slug {
			cp := *g
			return &cp, nil
		}
	}
	return nil, groups.ErrGroupNotFound
}

func (r *groupRepo) List(_ context.Context) ([]*groups.Group, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	result := make([]*groups.Group, 0, len(r.db.groups))
	for _, g := range r.db.groups {
		cp := *g
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Title != result[j].Title {
			return result[i].Title < result[j].Title
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
