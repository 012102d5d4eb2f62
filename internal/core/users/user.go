package users

import (
	"time"
)

// User is a registered author. Identity (ID, Username) never changes after registration.
type User struct {
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	ID           int64     `json:"id" db:"id"`
	IsAdmin      bool      `json:"isAdmin" db:"is_admin"`
}

// String returns the username, so templates and logs print a user by name.
func (u *User) String() string {
	if u == nil {
		return ""
	}
	return u.Username
}

// RegisterRequest is the signup form input
type RegisterRequest struct {
	Username        string
	Password        string
	PasswordConfirm string
}
