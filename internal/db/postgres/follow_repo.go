package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Quill/internal/core/follows"
)

type postgresFollowRepo struct {
	db *sql.DB
}

// NewFollowRepository creates a new PostgreSQL follow repository
func NewFollowRepository(db *sql.DB) follows.Repository {
	return &postgresFollowRepo{db: db}
}

// Create inserts the edge; concurrent duplicates collapse through ON CONFLICT DO NOTHING
func (r *postgresFollowRepo) Create(ctx context.Context, userID, authorID int64) (bool, error) {
	query := `
		INSERT INTO follows (user_id, author_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, author_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, userID, authorID)
	if err != nil {
		if constraintViolation(err, checkViolation, "no_self_follow") {
			return false, follows.ErrSelfFollow
		}
		return false, fmt.Errorf("failed to create follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check follow result: %w", err)
	}
	return rows > 0, nil
}

func (r *postgresFollowRepo) Delete(ctx context.Context, userID, authorID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM follows WHERE user_id = $1 AND author_id = $2`, userID, authorID)
	if err != nil {
		return false, fmt.Errorf("failed to delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check unfollow result: %w", err)
	}
	return rows > 0, nil
}

func (r *postgresFollowRepo) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE user_id = $1 AND author_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, userID, authorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return exists, nil
}

func (r *postgresFollowRepo) CountFollowers(ctx context.Context, authorID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM follows WHERE author_id = $1`, authorID)
}

func (r *postgresFollowRepo) CountFollowing(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM follows WHERE user_id = $1`, userID)
}

func (r *postgresFollowRepo) count(ctx context.Context, query string, id int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count follows: %w", err)
	}
	return n, nil
}
