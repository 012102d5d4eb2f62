package memory

import (
	"context"

	"Quill/internal/core/users"
)

type userRepo struct {
	db *DB
}

func (r *userRepo) Create(_ context.Context, user *users.User) (*users.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Username == user.Username {
			return nil, users.ErrUsernameTaken
		}
	}

	user.ID = r.db.id()
	user.CreatedAt = r.db.now()
	stored := *user
	r.db.users[user.ID] = &stored
	return user, nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*users.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*users.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, users.ErrUserNotFound
}

func (r *userRepo) SetAdmin(_ context.Context, id int64, isAdmin bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return users.ErrUserNotFound
	}
	u.IsAdmin = isAdmin
	return nil
}
