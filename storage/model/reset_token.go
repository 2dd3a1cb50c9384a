package model

import (
	"time"
)

// ResetToken permits a single password change without re-authentication.
// The token value itself is the key: an opaque crypto-random URL-safe
// string with 256 bits of entropy.
type ResetToken struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"-"`

	// Token is the opaque token value handed to the user.
	Token string `gorm:"uniqueIndex" json:"-"`
	// Username is the account the token belongs to (stored casing).
	Username string `json:"username"`
	// Expiry is the instant after which the token is no longer usable.
	Expiry time.Time `json:"expiry"`
}

// Expired reports whether the token is past its expiry at the given time.
// A token is usable up to and including the expiry instant.
func (t ResetToken) Expired(now time.Time) bool {
	return now.After(t.Expiry)
}

// ResetTokenStore abstracts reset token persistence.
// Expiry is enforced lazily: Verify deletes tokens it finds expired,
// there is no background sweep.
type ResetTokenStore interface {
	// Generate creates a token for username with the store's configured
	// lifetime, persists it and returns the token value
	Generate(username string) (string, error)
	// Verify returns the username a token belongs to without consuming it.
	// Returns "" for unknown or expired tokens; expired tokens are deleted.
	Verify(token string) (string, error)
	// Consume deletes a token regardless of its expiry state
	Consume(token string) error
}
