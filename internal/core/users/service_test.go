package users

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *User) (*User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	args := m.Called(ctx, id, isAdmin)
	return args.Error(0)
}

func hashed(t *testing.T, password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegister_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserServiceWithCost(mockRepo, bcrypt.MinCost)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Username == "leo" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct-horse")) == nil
	})).Return(&User{ID: 1, Username: "leo", CreatedAt: time.Now()}, nil)

	user, err := service.Register(context.Background(), RegisterRequest{
		Username:        "  leo ",
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	mockRepo.AssertExpectations(t)
}

func TestRegister_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		req   RegisterRequest
		field string
	}{
		{name: "empty username", req: RegisterRequest{Password: "password1", PasswordConfirm: "password1"}, field: "username"},
		{name: "bad characters", req: RegisterRequest{Username: "has space", Password: "password1", PasswordConfirm: "password1"}, field: "username"},
		{name: "short password", req: RegisterRequest{Username: "leo", Password: "short", PasswordConfirm: "short"}, field: "password"},
		{name: "too long", req: RegisterRequest{Username: strings.Repeat("a", 151), Password: "password1", PasswordConfirm: "password1"}, field: "username"},
		{name: "mismatch", req: RegisterRequest{Username: "leo", Password: "password1", PasswordConfirm: "password2"}, field: "password_confirm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			service := NewUserServiceWithCost(mockRepo, bcrypt.MinCost)

			_, err := service.Register(context.Background(), tt.req)

			require.Error(t, err)
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Contains(t, valErr.Fields, tt.field)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_UsernameLengthCountsCharacters(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserServiceWithCost(mockRepo, bcrypt.MinCost)

	// 150 Cyrillic letters are 300 bytes
	name := strings.Repeat("ж", MaxUsernameLength)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Username == name
	})).Return(&User{ID: 2, Username: name}, nil)

	user, err := service.Register(context.Background(), RegisterRequest{
		Username: name, Password: "password1", PasswordConfirm: "password1",
	})

	require.NoError(t, err)
	assert.Equal(t, name, user.Username)

	_, err = service.Register(context.Background(), RegisterRequest{
		Username: name + "ж", Password: "password1", PasswordConfirm: "password1",
	})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "username")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserServiceWithCost(mockRepo, bcrypt.MinCost)

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil, ErrUsernameTaken)

	_, err := service.Register(context.Background(), RegisterRequest{
		Username: "leo", Password: "password1", PasswordConfirm: "password1",
	})

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestAuthenticate(t *testing.T) {
	stored := &User{ID: 3, Username: "leo", PasswordHash: hashed(t, "password1")}

	t.Run("valid credentials", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByUsername", mock.Anything, "leo").Return(stored, nil)
		service := NewUserService(mockRepo)

		user, err := service.Authenticate(context.Background(), "leo", "password1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByUsername", mock.Anything, "leo").Return(stored, nil)
		service := NewUserService(mockRepo)

		_, err := service.Authenticate(context.Background(), "leo", "nope-nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, ErrUserNotFound)
		service := NewUserService(mockRepo)

		_, err := service.Authenticate(context.Background(), "ghost", "password1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty input skips lookup", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		_, err := service.Authenticate(context.Background(), "", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		mockRepo.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
	})
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByUsername", mock.Anything, "missing").Return(nil, ErrUserNotFound)
	service := NewUserService(mockRepo)

	_, err := service.GetUserByUsername(context.Background(), "missing")
	assert.True(t, IsNotFound(err))

	_, err = service.GetUserByUsername(context.Background(), "   ")
	assert.True(t, IsNotFound(err))
}

func TestPromoteToAdmin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByUsername", mock.Anything, "leo").Return(&User{ID: 5, Username: "leo"}, nil)
	mockRepo.On("SetAdmin", mock.Anything, int64(5), true).Return(nil)
	service := NewUserService(mockRepo)

	require.NoError(t, service.PromoteToAdmin(context.Background(), "leo"))
	mockRepo.AssertExpectations(t)
}
