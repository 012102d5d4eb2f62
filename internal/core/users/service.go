package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	MaxUsernameLength = 150
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
)

// Usernames may contain letters, digits and @/./+/-/_ only
var usernameRegex = regexp.MustCompile(`^[\pL\pN@.+\-_]+$`)

type userService struct {
	userRepo   UserRepository
	bcryptCost int
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository) UserService {
	return &userService{
		userRepo:   userRepo,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// NewUserServiceWithCost is NewUserService with a custom bcrypt cost (tests use bcrypt.MinCost)
func NewUserServiceWithCost(userRepo UserRepository, cost int) UserService {
	return &userService{
		userRepo:   userRepo,
		bcryptCost: cost,
	}
}

// Register creates a new account
func (s *userService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validateRegisterRequest(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Username:     req.Username,
		PasswordHash: string(hash),
	}

	// Repository will handle duplicate constraint errors
	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, &ValidationError{Fields: map[string]string{
				"username": "A user with that username already exists.",
			}}
		}
		return nil, err
	}
	return created, nil
}

// Authenticate verifies a username/password pair
func (s *userService) Authenticate(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByID retrieves a user by primary key
func (s *userService) GetUserByID(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, ErrUserNotFound
	}
	return s.userRepo.GetByID(ctx, id)
}

// GetUserByUsername retrieves a user by their username
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUserNotFound
	}
	return s.userRepo.GetByUsername(ctx, username)
}

// PromoteToAdmin marks an existing user as administrator
func (s *userService) PromoteToAdmin(ctx context.Context, username string) error {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.userRepo.SetAdmin(ctx, user.ID, true)
}

func (s *userService) validateRegisterRequest(req RegisterRequest) error {
	fields := map[string]string{}

	switch {
	case req.Username == "":
		fields["username"] = "This field is required."
	case utf8.RuneCountInString(req.Username) > MaxUsernameLength:
		fields["username"] = fmt.Sprintf("Ensure this value has at most %d characters.", MaxUsernameLength)
	case !usernameRegex.MatchString(req.Username):
		fields["username"] = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	}

	switch {
	case req.Password == "":
		fields["password"] = "This field is required."
	case len(req.Password) < MinPasswordLength:
		fields["password"] = fmt.Sprintf("This password is too short. It must contain at least %d characters.", MinPasswordLength)
	case len(req.Password) > MaxPasswordLength:
		fields["password"] = fmt.Sprintf("Ensure this value has at most %d characters.", MaxPasswordLength)
	case req.Password != req.PasswordConfirm:
		fields["password_confirm"] = "The two password fields didn't match."
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
