package memory

import (
	"context"

	"Quill/internal/core/follows"
)

type followRepo struct {
	db *DB
}

func (r *followRepo) Create(_ context.Context, userID, authorID int64) (bool, error) {
	if userID == authorID {
		return false, follows.ErrSelfFollow
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := followKey{userID: userID, authorID: authorID}
	if _, exists := r.db.follows[key]; exists {
		return false, nil
	}
	r.db.follows[key] = r.db.now()
	return true, nil
}

func (r *followRepo) Delete(_ context.Context, userID, authorID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := followKey{userID: userID, authorID: authorID}
	if _, exists := r.db.follows[key]; !exists {
		return false, nil
	}
	delete(r.db.follows, key)
	return true, nil
}

func (r *followRepo) Exists(_ context.Context, userID, authorID int64) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	_, exists := r.db.follows[followKey{userID: userID, authorID: authorID}]
	return exists, nil
}

func (r *followRepo) CountFollowers(_ context.Context, authorID int64) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := 0
	for k := range r.db.follows {
		if k.authorID == authorID {
			n++
		}
	}
	return n, nil
}

func (r *followRepo) CountFollowing(_ context.Context, userID int64) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := 0
	for k := range r.db.follows {
		if k.userID == userID {
			n++
		}
	}
	return n, nil
}
