package storage

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/gyaan-apps/portal/storage/model"
)

// UsersStorage returns a UsersStorage
func (s *Storage) UsersStorage() *UsersStorage {
	return &UsersStorage{db: s.db, params: s.userParams}
}

// UsersStorage implements model.UsersStore using GORM.
// Username and email matching is case-insensitive throughout; the casing
// given at signup is what gets stored.
type UsersStorage struct {
	db     *gorm.DB
	params Argon2idParams
}

// Count returns the number of users present in the store
func (s *UsersStorage) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List returns all users (without password hashes)
func (s *UsersStorage) List() ([]model.User, error) {
	var users []model.User
	if err := s.db.Model(&model.User{}).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// Get returns a user by username (case-insensitive)
func (s *UsersStorage) Get(username string) (*model.User, error) {
	u, err := s.find(username)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// GetByUsernameOrEmail returns the user whose username or email
// case-insensitively equals ident
func (s *UsersStorage) GetByUsernameOrEmail(ident string) (*model.User, error) {
	var u model.User
	err := s.db.Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", ident, ident).First(&u).Error
	if err != nil {
		return nil, model.NotFoundErrorFmt("user not found: %s", ident)
	}
	u.PasswordHash = ""
	return &u, nil
}

// Create creates a user with an argon2id-hashed password and role USER.
// Duplicate usernames and emails are rejected case-insensitively.
func (s *UsersStorage) Create(username, password, email string) (*model.User, error) {
	if len(username) == 0 || len(password) == 0 || len(email) == 0 {
		return nil, errors.Errorf("username, password and email are required")
	}
	var existing int64
	if err := s.db.Model(&model.User{}).Where("LOWER(username) = LOWER(?)", username).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, model.AlreadyExistsError("Username already exists")
	}
	if err := s.db.Model(&model.User{}).Where("LOWER(email) = LOWER(?)", email).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, model.AlreadyExistsError("Email already exists")
	}
	hash, err := hashPasswordArgon2id(password, s.params)
	if err != nil {
		return nil, err
	}
	u := model.User{Username: username, PasswordHash: hash, Email: email, Role: model.RoleUser}
	if err := s.db.Create(&u).Error; err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return &u, nil
}

// Update updates email / password / role of an existing user
func (s *UsersStorage) Update(username string, email, newPassword *string, role *model.Role) (*model.User, error) {
	u, err := s.find(username)
	if err != nil {
		return nil, err
	}
	if email != nil {
		u.Email = *email
	}
	if role != nil {
		u.Role = *role
	}
	if newPassword != nil {
		if len(*newPassword) == 0 {
			return nil, errors.Errorf("password cannot be empty")
		}
		hash, err := hashPasswordArgon2id(*newPassword, s.params)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if err := s.db.Save(u).Error; err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// UpdatePassword replaces the stored password hash for a user
func (s *UsersStorage) UpdatePassword(username, newPassword string) error {
	_, err := s.Update(username, nil, &newPassword, nil)
	return err
}

// Delete deletes a user by username
func (s *UsersStorage) Delete(username string) error {
	res := s.db.Where("LOWER(username) = LOWER(?)", username).Delete(&model.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.NotFoundErrorFmt("user not found: %s", username)
	}
	return nil
}

// Authenticate validates username/password and auto-upgrades hash if params changed.
// Unknown users and wrong passwords both yield the same error.
func (s *UsersStorage) Authenticate(username, password string) (*model.User, error) {
	u, err := s.find(username)
	if err != nil {
		return nil, errors.Errorf("invalid credentials")
	}
	ok, err := verifyPasswordArgon2id(u.PasswordHash, password)
	if err != nil || !ok {
		return nil, errors.Errorf("invalid credentials")
	}
	if stored, err := extractArgon2idParams(u.PasswordHash); err == nil && !argon2idParamsEqual(stored, s.params) {
		if newHash, err := hashPasswordArgon2id(password, s.params); err == nil {
			_ = s.db.Model(&model.User{}).Where("id = ?", u.ID).Update("password_hash", newHash).Error
		}
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *UsersStorage) find(username string) (*model.User, error) {
	var u model.User
	if err := s.db.Where("LOWER(username) = LOWER(?)", username).First(&u).Error; err != nil {
		return nil, model.NotFoundErrorFmt("user not found: %s", username)
	}
	return &u, nil
}
