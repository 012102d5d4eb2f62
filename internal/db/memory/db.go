// Package memory provides in-process implementations of every repository.
// It backs STORAGE=memory and the HTTP tests; data is lost on exit.
package memory

import (
	"sync"
	"time"

	"Quill/internal/core/comments"
	"Quill/internal/core/follows"
	"Quill/internal/core/groups"
	"Quill/internal/core/posts"
	"Quill/internal/core/users"
)

type followKey struct {
	userID   int64
	authorID int64
}

// DB holds all tables behind one lock so joins (author names, feed filters) see a consistent view
type DB struct {
	now      func() time.Time
	users    map[int64]*users.User
	groups   map[int64]*groups.Group
	posts    map[int64]*posts.Post
	comments map[int64]*comments.Comment
	follows  map[followKey]time.Time
	nextID   int64
	mu       sync.RWMutex
}

// New creates an empty database
func New() *DB {
	return &DB{
		now:      time.Now,
		users:    make(map[int64]*users.User),
		groups:   make(map[int64]*groups.Group),
		posts:    make(map[int64]*posts.Post),
		comments: make(map[int64]*comments.Comment),
		follows:  make(map[followKey]time.Time),
	}
}

// id returns the next identifier; callers hold the write lock
func (db *DB) id() int64 {
	db.nextID++
	return db.nextID
}

// Users returns the user repository
func (db *DB) Users() users.UserRepository { return &userRepo{db: db} }

// Groups returns the group repository
func (db *DB) Groups() groups.Repository { return &groupRepo{db: db} }

// Posts returns the post repository
func (db *DB) Posts() posts.Repository { return &postRepo{db: db} }

// Comments returns the comment repository
func (db *DB) Comments() comments.Repository { return &commentRepo{db: db} }

// Follows returns the follow repository
func (db *DB) Follows() follows.Repository { return &followRepo{db: db} }
