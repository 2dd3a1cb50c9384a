package storage

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/gyaan-apps/portal/storage/model"
)

// resetTokenBytes is the entropy of a reset token (256 bits).
const resetTokenBytes = 32

// newResetTokenValue returns a crypto-random URL-safe token string.
func newResetTokenValue() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "could not generate reset token")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ResetTokensStorage returns a ResetTokensStorage
func (s *Storage) ResetTokensStorage() *ResetTokensStorage {
	return &ResetTokensStorage{db: s.db, ttl: s.resetTokenTTL}
}

// ResetTokensStorage implements model.ResetTokenStore using GORM.
// Expired tokens are removed lazily when Verify encounters them.
type ResetTokensStorage struct {
	db  *gorm.DB
	ttl time.Duration
}

// Generate creates and persists a token for username
func (s *ResetTokensStorage) Generate(username string) (string, error) {
	value, err := newResetTokenValue()
	if err != nil {
		return "", err
	}
	t := model.ResetToken{
		Token:    value,
		Username: username,
		Expiry:   time.Now().Add(s.ttl),
	}
	if err := s.db.Create(&t).Error; err != nil {
		return "", err
	}
	return value, nil
}

// Verify returns the username for a token, deleting it when expired.
// Returns "" for unknown or expired tokens.
func (s *ResetTokensStorage) Verify(token string) (string, error) {
	var t model.ResetToken
	if err := s.db.Where("token = ?", token).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	if t.Expired(time.Now()) {
		if err := s.db.Delete(&t).Error; err != nil {
			return "", err
		}
		return "", nil
	}
	return t.Username, nil
}

// Consume deletes a token regardless of its expiry state
func (s *ResetTokensStorage) Consume(token string) error {
	return s.db.Where("token = ?", token).Delete(&model.ResetToken{}).Error
}
