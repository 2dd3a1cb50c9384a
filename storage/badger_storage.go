package storage

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/gyaan-apps/portal/storage/model"
)

const (
	badgerUserPrefix       = "user:"
	badgerResetTokenPrefix = "resettoken:"
	badgerContentKey       = "content"
)

// BadgerStorage is an embedded transactional storage backend. Records are
// msgpack-encoded; user keys are lowercased so lookups are case-insensitive
// while the stored record keeps the signup casing.
type BadgerStorage struct {
	db     *badger.DB
	params Argon2idParams
	ttl    time.Duration
}

// NewBadgerStorage opens (or creates) a Badger database under basepath
func NewBadgerStorage(basepath string, params Argon2idParams, resetTokenTTL time.Duration) (*BadgerStorage, error) {
	if params.Time == 0 {
		params = defaultArgon2idParams()
	}
	if resetTokenTTL == 0 {
		resetTokenTTL = time.Hour
	}
	opts := badger.DefaultOptions(filepath.Join(basepath, "badger")).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "could not open badger database")
	}
	return &BadgerStorage{db: db, params: params, ttl: resetTokenTTL}, nil
}

// Close closes the underlying database
func (store *BadgerStorage) Close() error {
	return store.db.Close()
}

// write msgpack-encodes value and stores it at key
func (store *BadgerStorage) write(key string, value any) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}
	return store.db.Update(
		func(txn *badger.Txn) error {
			return txn.Set([]byte(key), data)
		},
	)
}

// read reads the value for a given key into target; returns false if the key is absent
func (store *BadgerStorage) read(key string, target any) (bool, error) {
	var found bool
	err := store.db.View(
		func(txn *badger.Txn) error {
			item, err := txn.Get([]byte(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			found = true
			return item.Value(
				func(val []byte) error {
					return msgpack.Unmarshal(val, target)
				},
			)
		},
	)
	return found, err
}

// delete deletes the value associated with the given key
func (store *BadgerStorage) delete(key string) error {
	return store.db.Update(
		func(txn *badger.Txn) error {
			return txn.Delete([]byte(key))
		},
	)
}

// iterate calls fn for every msgpack-decoded value under prefix
func (store *BadgerStorage) iterate(prefix string, fn func(val []byte) error) error {
	return store.db.View(
		func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			p := []byte(prefix)
			for it.Seek(p); it.ValidForPrefix(p); it.Next() {
				if err := it.Item().Value(fn); err != nil {
					return err
				}
			}
			return nil
		},
	)
}

type badgerUser struct {
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
	Role         model.Role
}

func (u badgerUser) toUser() model.User {
	return model.User{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Email:        u.Email,
		CreatedAt:    u.CreatedAt,
		Role:         u.Role,
	}
}

func badgerUserKey(username string) string {
	return badgerUserPrefix + strings.ToLower(username)
}

// UsersStorage returns a badger-based model.UsersStore
func (store *BadgerStorage) UsersStorage() *BadgerUsersStorage {
	return &BadgerUsersStorage{store: store}
}

// BadgerUsersStorage implements model.UsersStore on BadgerStorage
type BadgerUsersStorage struct {
	store *BadgerStorage
}

// Count returns the number of users present in the store
func (s *BadgerUsersStorage) Count() (int64, error) {
	var count int64
	err := s.store.iterate(
		badgerUserPrefix, func([]byte) error {
			count++
			return nil
		},
	)
	return count, err
}

// List returns all users (without password hashes)
func (s *BadgerUsersStorage) List() ([]model.User, error) {
	var users []model.User
	err := s.store.iterate(
		badgerUserPrefix, func(val []byte) error {
			var u badgerUser
			if err := msgpack.Unmarshal(val, &u); err != nil {
				return err
			}
			mu := u.toUser()
			mu.PasswordHash = ""
			users = append(users, mu)
			return nil
		},
	)
	return users, err
}

// Get returns a user by username (case-insensitive)
func (s *BadgerUsersStorage) Get(username string) (*model.User, error) {
	var u badgerUser
	found, err := s.store.read(badgerUserKey(username), &u)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.NotFoundErrorFmt("user not found: %s", username)
	}
	mu := u.toUser()
	mu.PasswordHash = ""
	return &mu, nil
}

// GetByUsernameOrEmail returns the user whose username or email
// case-insensitively equals ident
func (s *BadgerUsersStorage) GetByUsernameOrEmail(ident string) (*model.User, error) {
	if u, err := s.Get(ident); err == nil {
		return u, nil
	}
	lower := strings.ToLower(ident)
	var match *model.User
	err := s.store.iterate(
		badgerUserPrefix, func(val []byte) error {
			var u badgerUser
			if err := msgpack.Unmarshal(val, &u); err != nil {
				return err
			}
			if strings.ToLower(u.Email) == lower {
				mu := u.toUser()
				mu.PasswordHash = ""
				match = &mu
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, model.NotFoundErrorFmt("user not found: %s", ident)
	}
	return match, nil
}

// Create creates a user with an argon2id-hashed password and role USER
func (s *BadgerUsersStorage) Create(username, password, email string) (*model.User, error) {
	if len(username) == 0 || len(password) == 0 || len(email) == 0 {
		return nil, errors.Errorf("username, password and email are required")
	}
	var existing badgerUser
	found, err := s.store.read(badgerUserKey(username), &existing)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, model.AlreadyExistsError("Username already exists")
	}
	emailLower := strings.ToLower(email)
	emailTaken := false
	if err = s.store.iterate(
		badgerUserPrefix, func(val []byte) error {
			var u badgerUser
			if err := msgpack.Unmarshal(val, &u); err != nil {
				return err
			}
			if strings.ToLower(u.Email) == emailLower {
				emailTaken = true
			}
			return nil
		},
	); err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, model.AlreadyExistsError("Email already exists")
	}
	hash, err := hashPasswordArgon2id(password, s.store.params)
	if err != nil {
		return nil, err
	}
	u := badgerUser{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		CreatedAt:    time.Now(),
		Role:         model.RoleUser,
	}
	if err = s.store.write(badgerUserKey(username), u); err != nil {
		return nil, err
	}
	mu := u.toUser()
	mu.PasswordHash = ""
	return &mu, nil
}

// Update updates email / password / role of an existing user
func (s *BadgerUsersStorage) Update(username string, email, newPassword *string, role *model.Role) (*model.User, error) {
	var u badgerUser
	found, err := s.store.read(badgerUserKey(username), &u)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.NotFoundErrorFmt("user not found: %s", username)
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
		hash, err := hashPasswordArgon2id(*newPassword, s.store.params)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if err = s.store.write(badgerUserKey(username), u); err != nil {
		return nil, err
	}
	mu := u.toUser()
	mu.PasswordHash = ""
	return &mu, nil
}

// UpdatePassword replaces the stored password hash for a user
func (s *BadgerUsersStorage) UpdatePassword(username, newPassword string) error {
	_, err := s.Update(username, nil, &newPassword, nil)
	return err
}

// Delete deletes a user by username
func (s *BadgerUsersStorage) Delete(username string) error {
	var u badgerUser
	found, err := s.store.read(badgerUserKey(username), &u)
	if err != nil {
		return err
	}
	if !found {
		return model.NotFoundErrorFmt("user not found: %s", username)
	}
	return s.store.delete(badgerUserKey(username))
}

// Authenticate validates username/password. Unknown users and wrong
// passwords both yield the same error.
func (s *BadgerUsersStorage) Authenticate(username, password string) (*model.User, error) {
	var u badgerUser
	found, err := s.store.read(badgerUserKey(username), &u)
	if err != nil || !found {
		return nil, errors.Errorf("invalid credentials")
	}
	ok, err := verifyPasswordArgon2id(u.PasswordHash, password)
	if err != nil || !ok {
		return nil, errors.Errorf("invalid credentials")
	}
	mu := u.toUser()
	mu.PasswordHash = ""
	return &mu, nil
}

type badgerResetToken struct {
	Username string
	Expiry   time.Time
}

// ResetTokensStorage returns a badger-based model.ResetTokenStore
func (store *BadgerStorage) ResetTokensStorage() *BadgerResetTokensStorage {
	return &BadgerResetTokensStorage{store: store}
}

// BadgerResetTokensStorage implements model.ResetTokenStore on BadgerStorage
type BadgerResetTokensStorage struct {
	store *BadgerStorage
}

// Generate creates and persists a token for username
func (s *BadgerResetTokensStorage) Generate(username string) (string, error) {
	value, err := newResetTokenValue()
	if err != nil {
		return "", err
	}
	t := badgerResetToken{Username: username, Expiry: time.Now().Add(s.store.ttl)}
	if err = s.store.write(badgerResetTokenPrefix+value, t); err != nil {
		return "", err
	}
	return value, nil
}

// Verify returns the username for a token, deleting it when expired.
// Returns "" for unknown or expired tokens.
func (s *BadgerResetTokensStorage) Verify(token string) (string, error) {
	var t badgerResetToken
	found, err := s.store.read(badgerResetTokenPrefix+token, &t)
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}
	if time.Now().After(t.Expiry) {
		if err = s.store.delete(badgerResetTokenPrefix + token); err != nil {
			return "", err
		}
		return "", nil
	}
	return t.Username, nil
}

// Consume deletes a token regardless of its expiry state
func (s *BadgerResetTokensStorage) Consume(token string) error {
	return s.store.delete(badgerResetTokenPrefix + token)
}

// ContentStorage returns a badger-based model.ContentStore
func (store *BadgerStorage) ContentStorage() *BadgerContentStorage {
	return &BadgerContentStorage{store: store}
}

// BadgerContentStorage implements model.ContentStore on BadgerStorage
type BadgerContentStorage struct {
	store *BadgerStorage
}

// Get returns the stored FAQ/About content, seeding the default on first use.
func (s *BadgerContentStorage) Get() (*model.Content, error) {
	var content model.Content
	found, err := s.store.read(badgerContentKey, &content)
	if err != nil {
		return nil, err
	}
	if !found {
		content = model.DefaultContent()
		if err = s.Set(content); err != nil {
			return nil, err
		}
	}
	return &content, nil
}

// Set replaces the stored content.
func (s *BadgerContentStorage) Set(content model.Content) error {
	return s.store.write(badgerContentKey, content)
}
