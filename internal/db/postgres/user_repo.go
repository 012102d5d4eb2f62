package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Quill/internal/core/users"
)

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.UserRepository {
	return &postgresUserRepo{db: db}
}

// Create inserts a new user into the users table
func (r *postgresUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	query := `
		INSERT INTO users (username, password_hash, is_admin)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash, user.IsAdmin).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if constraintViolation(err, uniqueViolation, "users_username_key") {
			return nil, users.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *postgresUserRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	query := `SELECT id, username, password_hash, is_admin, created_at FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "ID")
}

// GetByUsername retrieves a user by username (case-sensitive)
func (r *postgresUserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	query := `SELECT id, username, password_hash, is_admin, created_at FROM users WHERE username = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username), "username")
}

// SetAdmin grants or revokes administrator rights
func (r *postgresUserRepo) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET is_admin = $2 WHERE id = $1`, id, isAdmin)
	if err != nil {
		return fmt.Errorf("failed to update admin flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

func (r *postgresUserRepo) scanOne(row *sql.Row, by string) (*users.User, error) {
	user := &users.User{}
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", by, err)
	}
	return user, nil
}
