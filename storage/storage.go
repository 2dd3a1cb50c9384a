package storage

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gyaan-apps/portal/storage/model"
)

// Storage is a GORM-based storage implementation
type Storage struct {
	db            *gorm.DB
	userParams    Argon2idParams
	resetTokenTTL time.Duration
}

var models = []any{
	&model.User{},
	&model.ResetToken{},
	&model.KeyValue{},
}

// NewStorage creates a new GORM-based storage
func NewStorage(config Config) (*Storage, error) {
	db, err := Connect(config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate the schemas
	if err = db.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Fill user hash params with defaults if zero values
	params := config.UsersHash
	if params.Time == 0 {
		params = defaultArgon2idParams()
	}

	ttl := config.ResetTokenTTL
	if ttl == 0 {
		ttl = time.Hour
	}

	return &Storage{
		db:            db,
		userParams:    params,
		resetTokenTTL: ttl,
	}, nil
}
