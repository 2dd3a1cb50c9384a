package storage

import (
	"encoding/json"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/gyaan-apps/portal/storage/model"
)

// FileStorage is a storage backend keeping each collection in a single JSON
// file. Every store serializes its read-modify-write cycles behind a mutex;
// this is the single-writer guarantee the portal relies on, there is no
// cross-process locking.
type FileStorage struct {
	files  map[string]*file
	params Argon2idParams
	ttl    time.Duration
}

type file struct {
	path  string
	mutex sync.RWMutex
}

// NewFileStorage creates a new FileStorage at the given path
func NewFileStorage(basepath string, params Argon2idParams, resetTokenTTL time.Duration) *FileStorage {
	if params.Time == 0 {
		params = defaultArgon2idParams()
	}
	if resetTokenTTL == 0 {
		resetTokenTTL = time.Hour
	}
	return &FileStorage{
		files: map[string]*file{
			"users":        {path: path.Join(basepath, "users.json")},
			"reset_tokens": {path: path.Join(basepath, "reset_tokens.json")},
			"content":      {path: path.Join(basepath, "faq_data.json")},
		},
		params: params,
		ttl:    resetTokenTTL,
	}
}

// UsersStorage returns a file-based model.UsersStore
func (store *FileStorage) UsersStorage() *FileUsersStorage {
	return &FileUsersStorage{file: store.files["users"], params: store.params}
}

// ResetTokensStorage returns a file-based model.ResetTokenStore
func (store *FileStorage) ResetTokensStorage() *FileResetTokensStorage {
	return &FileResetTokensStorage{file: store.files["reset_tokens"], ttl: store.ttl}
}

// ContentStorage returns a file-based model.ContentStore
func (store *FileStorage) ContentStorage() *FileContentStorage {
	return &FileContentStorage{file: store.files["content"]}
}

// userRecord is the on-disk representation of a user. The file maps the
// username (original casing) to this record.
type userRecord struct {
	Password  string     `json:"password"`
	Email     string     `json:"email"`
	CreatedAt string     `json:"created_at"`
	Role      model.Role `json:"role"`
}

func (r userRecord) validate(username string) error {
	if r.Password == "" || r.Email == "" || r.CreatedAt == "" {
		return errors.Errorf("users file: incomplete record for '%s'", username)
	}
	return nil
}

func (r userRecord) toUser(username string) model.User {
	created, _ := time.Parse(time.RFC3339, r.CreatedAt)
	role := r.Role
	if role == "" {
		role = model.RoleUser
	}
	return model.User{
		Username:     username,
		PasswordHash: r.Password,
		Email:        r.Email,
		CreatedAt:    created,
		Role:         role,
	}
}

// FileUsersStorage implements model.UsersStore on a JSON file mapping
// username to record. Lookups scan case-insensitively, the key keeps the
// casing used at signup.
type FileUsersStorage struct {
	*file
	params Argon2idParams
}

func (s *FileUsersStorage) readUnlocked() (map[string]userRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]userRecord{}, nil
		}
		return nil, err
	}
	var users map[string]userRecord
	if err = json.Unmarshal(data, &users); err != nil {
		return nil, errors.Wrap(err, "users file: malformed json")
	}
	for name, r := range users {
		if err = r.validate(name); err != nil {
			return nil, err
		}
	}
	if users == nil {
		users = map[string]userRecord{}
	}
	return users, nil
}

func (s *FileUsersStorage) writeUnlocked(users map[string]userRecord) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// findUnlocked returns the stored key and record whose username
// case-insensitively equals username.
func findUnlocked(users map[string]userRecord, username string) (string, userRecord, bool) {
	lower := strings.ToLower(username)
	for name, r := range users {
		if strings.ToLower(name) == lower {
			return name, r, true
		}
	}
	return "", userRecord{}, false
}

// Count returns the number of users present in the store
func (s *FileUsersStorage) Count() (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	users, err := s.readUnlocked()
	if err != nil {
		return 0, err
	}
	return int64(len(users)), nil
}

// List returns all users (without password hashes)
func (s *FileUsersStorage) List() ([]model.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	records, err := s.readUnlocked()
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(records))
	for name, r := range records {
		u := r.toUser(name)
		u.PasswordHash = ""
		users = append(users, u)
	}
	return users, nil
}

// Get returns a user by username (case-insensitive)
func (s *FileUsersStorage) Get(username string) (*model.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	users, err := s.readUnlocked()
	if err != nil {
		return nil, err
	}
	name, r, ok := findUnlocked(users, username)
	if !ok {
		return nil, model.NotFoundErrorFmt("user not found: %s", username)
	}
	u := r.toUser(name)
	u.PasswordHash = ""
	return &u, nil
}

// GetByUsernameOrEmail returns the user whose username or email
// case-insensitively equals ident
func (s *FileUsersStorage) GetByUsernameOrEmail(ident string) (*model.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	users, err := s.readUnlocked()
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(ident)
	for name, r := range users {
		if strings.ToLower(name) == lower || strings.ToLower(r.Email) == lower {
			u := r.toUser(name)
			u.PasswordHash = ""
			return &u, nil
		}
	}
	return nil, model.NotFoundErrorFmt("user not found: %s", ident)
}

// Create creates a user with an argon2id-hashed password and role USER.
// Duplicate usernames and emails are rejected case-insensitively.
func (s *FileUsersStorage) Create(username, password, email string) (*model.User, error) {
	if len(username) == 0 || len(password) == 0 || len(email) == 0 {
		return nil, errors.Errorf("username, password and email are required")
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	users, err := s.readUnlocked()
	if err != nil {
		return nil, err
	}
	if _, _, ok := findUnlocked(users, username); ok {
		return nil, model.AlreadyExistsError("Username already exists")
	}
	emailLower := strings.ToLower(email)
	for _, r := range users {
		if strings.ToLower(r.Email) == emailLower {
			return nil, model.AlreadyExistsError("Email already exists")
		}
	}
	hash, err := hashPasswordArgon2id(password, s.params)
	if err != nil {
		return nil, err
	}
	record := userRecord{
		Password:  hash,
		Email:     email,
		CreatedAt: time.Now().Format(time.RFC3339),
		Role:      model.RoleUser,
	}
	users[username] = record
	if err = s.writeUnlocked(users); err != nil {
		return nil, err
	}
	u := record.toUser(username)
	u.PasswordHash = ""
	return &u, nil
}

// Update updates email / password / role of an existing user
func (s *FileUsersStorage) Update(username string, email, newPassword *string, role *model.Role) (*model.User, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	users, err := s.readUnlocked()
	if err != nil {
		return nil, err
	}
	name, r, ok := findUnlocked(users, username)
	if !ok {
		return nil, model.NotFoundErrorFmt("user not found: %s", username)
	}
	if email != nil {
		r.Email = *email
	}
	if role != nil {
		r.Role = *role
	}
	if newPassword != nil {
		if len(*newPassword) == 0 {
			return nil, errors.Errorf("password cannot be empty")
		}
		hash, err := hashPasswordArgon2id(*newPassword, s.params)
		if err != nil {
			return nil, err
		}
		r.Password = hash
	}
	users[name] = r
	if err = s.writeUnlocked(users); err != nil {
		return nil, err
	}
	u := r.toUser(name)
	u.PasswordHash = ""
	return &u, nil
}

// UpdatePassword replaces the stored password hash for a user
func (s *FileUsersStorage) UpdatePassword(username, newPassword string) error {
	_, err := s.Update(username, nil, &newPassword, nil)
	return err
}

// Delete deletes a user by username
func (s *FileUsersStorage) Delete(username string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	users, err := s.readUnlocked()
	if err != nil {
		return err
	}
	name, _, ok := findUnlocked(users, username)
	if !ok {
		return model.NotFoundErrorFmt("user not found: %s", username)
	}
	delete(users, name)
	return s.writeUnlocked(users)
}

// Authenticate validates username/password. Unknown users and wrong
// passwords both yield the same error.
func (s *FileUsersStorage) Authenticate(username, password string) (*model.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	users, err := s.readUnlocked()
	if err != nil {
		return nil, err
	}
	name, r, ok := findUnlocked(users, username)
	if !ok {
		return nil, errors.Errorf("invalid credentials")
	}
	valid, err := verifyPasswordArgon2id(r.Password, password)
	if err != nil || !valid {
		return nil, errors.Errorf("invalid credentials")
	}
	u := r.toUser(name)
	u.PasswordHash = ""
	return &u, nil
}

// tokenRecord is the on-disk representation of a reset token. The file maps
// the token value to this record.
type tokenRecord struct {
	Username string `json:"username"`
	Expiry   string `json:"expiry"`
}

// FileResetTokensStorage implements model.ResetTokenStore on a JSON file
// mapping token to record. Expired tokens are removed lazily by Verify.
type FileResetTokensStorage struct {
	*file
	ttl time.Duration
}

func (s *FileResetTokensStorage) readUnlocked() (map[string]tokenRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]tokenRecord{}, nil
		}
		return nil, err
	}
	var tokens map[string]tokenRecord
	if err = json.Unmarshal(data, &tokens); err != nil {
		return nil, errors.Wrap(err, "reset tokens file: malformed json")
	}
	if tokens == nil {
		tokens = map[string]tokenRecord{}
	}
	return tokens, nil
}

func (s *FileResetTokensStorage) writeUnlocked(tokens map[string]tokenRecord) error {
	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Generate creates and persists a token for username
func (s *FileResetTokensStorage) Generate(username string) (string, error) {
	value, err := newResetTokenValue()
	if err != nil {
		return "", err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	tokens, err := s.readUnlocked()
	if err != nil {
		return "", err
	}
	tokens[value] = tokenRecord{
		Username: username,
		Expiry:   time.Now().Add(s.ttl).Format(time.RFC3339),
	}
	if err = s.writeUnlocked(tokens); err != nil {
		return "", err
	}
	return value, nil
}

// Verify returns the username for a token, deleting it when expired.
// Returns "" for unknown or expired tokens.
func (s *FileResetTokensStorage) Verify(token string) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	tokens, err := s.readUnlocked()
	if err != nil {
		return "", err
	}
	record, ok := tokens[token]
	if !ok {
		return "", nil
	}
	expiry, err := time.Parse(time.RFC3339, record.Expiry)
	if err != nil {
		return "", errors.Wrap(err, "reset tokens file: malformed expiry")
	}
	if time.Now().After(expiry) {
		delete(tokens, token)
		if err = s.writeUnlocked(tokens); err != nil {
			return "", err
		}
		return "", nil
	}
	return record.Username, nil
}

// Consume deletes a token regardless of its expiry state
func (s *FileResetTokensStorage) Consume(token string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	tokens, err := s.readUnlocked()
	if err != nil {
		return err
	}
	if _, ok := tokens[token]; !ok {
		return nil
	}
	delete(tokens, token)
	return s.writeUnlocked(tokens)
}

// FileContentStorage implements model.ContentStore on a single JSON file,
// seeding the default content on first read.
type FileContentStorage struct {
	*file
}

// Get returns the stored FAQ/About content, writing the default file when absent.
func (s *FileContentStorage) Get() (*model.Content, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		content := model.DefaultContent()
		if err = s.writeUnlocked(content); err != nil {
			return nil, err
		}
		return &content, nil
	}
	var content model.Content
	if err = json.Unmarshal(data, &content); err != nil {
		return nil, errors.Wrap(err, "content file: malformed json")
	}
	return &content, nil
}

// Set replaces the stored content.
func (s *FileContentStorage) Set(content model.Content) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.writeUnlocked(content)
}

func (s *FileContentStorage) writeUnlocked(content model.Content) error {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}
