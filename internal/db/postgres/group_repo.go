package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Quill/internal/core/groups"
)

type postgresGroupRepo struct {
	db *sql.DB
}

// NewGroupRepository creates a new PostgreSQL group repository
func NewGroupRepository(db *sql.DB) groups.Repository {
	return &postgresGroupRepo{db: db}
}

func (r *postgresGroupRepo) Create(ctx context.Context, group *groups.Group) error {
	query := `
		INSERT INTO groups (title, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, group.Title, group.Slug, group.Description).
		Scan(&group.ID, &group.CreatedAt)
	if err != nil {
		if constraintViolation(err, uniqueViolation, "groups_slug_key") {
			return groups.ErrSlugTaken
		}
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (r *postgresGroupRepo) GetByID(ctx context.Context, id int64) (*groups.Group, error) {
	query := `SELECT id, title, slug, description, created_at FROM groups WHERE id = $1`
	return scanGroup(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresGroupRepo) GetBySlug(ctx context.Context, slug string) (*groups.Group, error) {
	query := `SELECT id, title, slug, description, created_at FROM groups WHERE slug = $1`
	return scanGroup(r.db.QueryRowContext(ctx, query, slug))
}

// List returns all groups ordered by title
func (r *postgresGroupRepo) List(ctx context.Context) ([]*groups.Group, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, slug, description, created_at FROM groups ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer closeRows(rows)

	var result []*groups.Group
	for rows.Next() {
		g := &groups.Group{}
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}
	return result, nil
}

func scanGroup(row *sql.Row) (*groups.Group, error) {
	g := &groups.Group{}
	err := row.Scan(&g.ID, &g.Title, &g.Slug, &g.Description, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, groups.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}
