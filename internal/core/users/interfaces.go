package users

import "context"

// UserRepository defines the interface for user data persistence
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
}

// UserService defines the interface for user business logic
type UserService interface {
	// Register validates the signup form, hashes the password with bcrypt and stores the user.
	// Returns *ValidationError for bad input and ErrUsernameTaken for duplicates.
	Register(ctx context.Context, req RegisterRequest) (*User, error)

	// Authenticate checks credentials. Unknown usernames and wrong passwords both
	// return ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) (*User, error)

	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// PromoteToAdmin grants administrator rights (used by cmd/admin).
	PromoteToAdmin(ctx context.Context, username string) error
}
