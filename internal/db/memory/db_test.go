package memory

import (
	"context"
	"testing"

	"Quill/internal/core/comments"
	"Quill/internal/core/groups"
	"Quill/internal/core/posts"
	"Quill/internal/core/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosts_NewestFirstAndHydrated(t *testing.T) {
	db := New()
	ctx := context.Background()

	u, err := db.Users().Create(ctx, &users.User{Username: "auth"})
	require.NoError(t, err)
	g := &groups.Group{Title: "Test group", Slug: "test-slug"}
	require.NoError(t, db.Groups().Create(ctx, g))

	repo := db.Posts()
	for i := 0; i < 3; i++ {
		gid := g.ID
		require.NoError(t, repo.Create(ctx, &posts.Post{Text: "p", AuthorID: u.ID, GroupID: &gid}))
	}
	last := &posts.Post{Text: "last", AuthorID: u.ID}
	require.NoError(t, repo.Create(ctx, last))

	list, err := repo.List(ctx, posts.Filter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, last.ID, list[0].ID)
	assert.Equal(t, "auth", list[0].Author)
	assert.Equal(t, "test-slug", list[1].Group.Slug)

	n, err := repo.Count(ctx, posts.Filter{GroupID: g.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	page, err := repo.List(ctx, posts.Filter{}, 3, 3)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	empty, err := repo.List(ctx, posts.Filter{}, 3, 30)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPosts_FeedFilter(t *testing.T) {
	db := New()
	ctx := context.Background()

	reader, _ := db.Users().Create(ctx, &users.User{Username: "reader"})
	writer, _ := db.Users().Create(ctx, &users.User{Username: "writer"})
	stranger, _ := db.Users().Create(ctx, &users.User{Username: "stranger"})
	require.NoError(t, db.Posts().Create(ctx, &posts.Post{Text: "w", AuthorID: writer.ID}))
	require.NoError(t, db.Posts().Create(ctx, &posts.Post{Text: "s", AuthorID: stranger.ID}))

	n, _ := db.Posts().Count(ctx, posts.Filter{FollowerID: reader.ID})
	assert.Equal(t, 0, n)

	_, err := db.Follows().Create(ctx, reader.ID, writer.ID)
	require.NoError(t, err)

	list, err := db.Posts().List(ctx, posts.Filter{FollowerID: reader.ID}, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "writer", list[0].Author)
}

func TestPosts_DeleteCascadesComments(t *testing.T) {
	db := New()
	ctx := context.Background()

	u, _ := db.Users().Create(ctx, &users.User{Username: "auth"})
	p := &posts.Post{Text: "p", AuthorID: u.ID}
	require.NoError(t, db.Posts().Create(ctx, p))
	require.NoError(t, db.Comments().Create(ctx, &comments.Comment{PostID: p.ID, AuthorID: u.ID, Text: "c"}))

	require.NoError(t, db.Posts().Delete(ctx, p.ID))

	list, err := db.Comments().ListByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, db.Posts().Delete(ctx, p.ID), posts.ErrNotFound)
}

func TestUsers_UniqueUsername(t *testing.T) {
	db := New()
	ctx := context.Background()

	_, err := db.Users().Create(ctx, &users.User{Username: "auth"})
	require.NoError(t, err)
	_, err = db.Users().Create(ctx, &users.User{Username: "auth"})
	assert.ErrorIs(t, err, users.ErrUsernameTaken)
}

func TestFollows_Idempotent(t *testing.T) {
	db := New()
	ctx := context.Background()
	repo := db.Follows()

	created, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repo.Create(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, created)

	n, _ := repo.CountFollowers(ctx, 2)
	assert.Equal(t, 1, n)
}
