package sso

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// TimestampStatic is the fixed ts marker sent alongside a token. Tokens are
// not time-bound, the marker tells receiving apps which verification scheme
// applies.
const TimestampStatic = "STATIC"

// Authority derives and verifies the tokens that authenticate portal users
// towards the sub-applications. Both sides derive the same value from the
// shared secret, no state is exchanged.
type Authority struct {
	secret string
}

// NewAuthority creates an Authority for the given shared secret
func NewAuthority(secret string) *Authority {
	return &Authority{secret: secret}
}

// Generate returns the token and ts marker for a username. The username is
// lowercased first so all casings of the same account yield the same token.
func (a *Authority) Generate(username string) (token, ts string) {
	sum := sha256.Sum256([]byte(strings.ToLower(username) + ":" + a.secret))
	return hex.EncodeToString(sum[:]), TimestampStatic
}

// Verify reports whether token is the valid token for username.
// The comparison is constant-time.
func (a *Authority) Verify(username, token string) bool {
	expected, _ := a.Generate(username)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 1
}
