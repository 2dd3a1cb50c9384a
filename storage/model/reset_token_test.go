package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResetTokenExpiryBoundary(t *testing.T) {
	expiry := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	token := ResetToken{Token: "t", Username: "Alice", Expiry: expiry}

	assert.False(t, token.Expired(expiry.Add(-time.Second)))
	// usable up to and including the expiry instant
	assert.False(t, token.Expired(expiry))
	assert.True(t, token.Expired(expiry.Add(time.Nanosecond)))
}
