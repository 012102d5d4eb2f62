package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"Quill/internal/core/posts"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// selectPost hydrates author username and group slug/title in one query
const selectPost = `
	SELECT p.id, p.text, p.image, p.created_at, p.author_id, u.username,
	       p.group_id, g.title, g.slug
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id`

// Create inserts a new post and fills in ID and CreatedAt
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	query := `
		INSERT INTO posts (text, author_id, group_id, image)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, post.Text, post.AuthorID, nullableID(post.GroupID), post.Image).
		Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *postgresPostRepo) GetByID(ctx context.Context, id int64) (*posts.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, selectPost+` WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

func (r *postgresPostRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check post existence: %w", err)
	}
	return exists, nil
}

// Update writes text, group and image. Author and created_at are never changed.
func (r *postgresPostRepo) Update(ctx context.Context, post *posts.Post) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE posts SET text = $2, group_id = $3, image = $4 WHERE id = $1`,
		post.ID, post.Text, nullableID(post.GroupID), post.Image)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return expectOneRow(result)
}

// Delete removes the post; comments go with it through ON DELETE CASCADE
func (r *postgresPostRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return expectOneRow(result)
}

// List returns one page of posts newest first
func (r *postgresPostRepo) List(ctx context.Context, filter posts.Filter, limit, offset int) ([]*posts.Post, error) {
	where, args := buildPostFilter(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`%s %s ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d`,
		selectPost, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer closeRows(rows)

	var result []*posts.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return result, nil
}

func (r *postgresPostRepo) Count(ctx context.Context, filter posts.Filter) (int, error) {
	where, args := buildPostFilter(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return total, nil
}

// buildPostFilter turns a Filter into a WHERE clause with positional args
func buildPostFilter(filter posts.Filter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)

	if filter.GroupID > 0 {
		args = append(args, filter.GroupID)
		conds = append(conds, fmt.Sprintf("p.group_id = $%d", len(args)))
	}
	if filter.AuthorID > 0 {
		args = append(args, filter.AuthorID)
		conds = append(conds, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	if filter.FollowerID > 0 {
		args = append(args, filter.FollowerID)
		conds = append(conds, fmt.Sprintf(
			"p.author_id IN (SELECT f.author_id FROM follows f WHERE f.user_id = $%d)", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row scanner) (*posts.Post, error) {
	post := &posts.Post{}
	var (
		groupID    sql.NullInt64
		groupTitle sql.NullString
		groupSlug  sql.NullString
	)

	err := row.Scan(&post.ID, &post.Text, &post.Image, &post.CreatedAt, &post.AuthorID, &post.Author,
		&groupID, &groupTitle, &groupSlug)
	if err != nil {
		return nil, err
	}

	if groupID.Valid {
		id := groupID.Int64
		post.GroupID = &id
		post.Group = &posts.GroupRef{Title: groupTitle.String, Slug: groupSlug.String}
	}
	return post, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func expectOneRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check result: %w", err)
	}
	if rows == 0 {
		return posts.ErrNotFound
	}
	return nil
}
