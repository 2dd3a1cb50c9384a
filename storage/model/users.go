package model

import (
	"time"
)

// Role describes the authorization level of a portal user.
type Role string

const (
	// RoleUser is the default role assigned at signup.
	RoleUser Role = "USER"
	// RoleAdmin marks a user that may access the admin API.
	RoleAdmin Role = "ADMIN"
)

// User represents a portal account. Usernames and emails are unique
// case-insensitively; the casing used at signup is preserved in storage.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	// Username is the login identifier; matched case-insensitively.
	Username string `gorm:"uniqueIndex" json:"username"`
	// PasswordHash stores a PHC-formatted argon2id hash of the user's password
	PasswordHash string `json:"-"`
	// Email is unique case-insensitively across all accounts.
	Email string `gorm:"uniqueIndex" json:"email"`
	// Role is the user's authorization level.
	Role Role `json:"role"`
}

// UsersStore abstracts account persistence and authentication.
// All username lookups are case-insensitive; emails are compared
// case-insensitively for uniqueness.
type UsersStore interface {
	// Count returns the number of users present in the store
	Count() (int64, error)
	// List returns all users (without password hashes)
	List() ([]User, error)
	// Get returns a user by username; the implementation must match
	// case-insensitively and return a NotFoundError for unknown users
	Get(username string) (*User, error)
	// GetByUsernameOrEmail returns the user whose username or email
	// case-insensitively equals ident
	GetByUsernameOrEmail(ident string) (*User, error)
	// Create creates a user; the implementation must hash the password and
	// return an AlreadyExistsError on duplicate username or email
	Create(username, password, email string) (*User, error)
	// Update updates email / password / role of an existing user
	Update(username string, email, newPassword *string, role *Role) (*User, error)
	// UpdatePassword replaces the stored password hash for a user
	UpdatePassword(username, newPassword string) error
	// Delete deletes a user by username
	Delete(username string) error
	// Authenticate checks a username/password combo and returns the user.
	// Unknown users and wrong passwords are indistinguishable to the caller.
	Authenticate(username, password string) (*User, error)
}
