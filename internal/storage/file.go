package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

const (
	usersFile = "users.json"
	decksDir  = "decks"
)

var (
	_ UserStore = (*FileStore)(nil)
	_ DeckStore = (*FileStore)(nil)
)

// FileStore keeps users in <dir>/users.json and the decks of each user in
// <dir>/decks/<username>.json.
type FileStore struct {
	fs  afero.Fs
	dir string

	usersMu sync.Mutex
	locks   sync.Map // username -> *sync.Mutex
}

// NewFileStore creates the data directory layout on fs and returns a store rooted at dir.
func NewFileStore(fsys afero.Fs, dir string) (*FileStore, error) {
	if err := fsys.MkdirAll(filepath.Join(dir, decksDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{fs: fsys, dir: dir}, nil
}

// LoadUsers returns all users. Missing or unreadable files yield an empty collection.
func (s *FileStore) LoadUsers() Users {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	return s.loadUsers()
}

// SaveUsers replaces the stored users.
func (s *FileStore) SaveUsers(users Users) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	return s.writeJSON(s.usersPath(), users)
}

// UpdateUsers implements UserStore.
func (s *FileStore) UpdateUsers(fn func(users Users) (bool, error)) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	users := s.loadUsers()
	changed, err := fn(users)
	if err != nil || !changed {
		return err
	}
	return s.writeJSON(s.usersPath(), users)
}

func (s *FileStore) loadUsers() Users {
	users := Users{}
	data, err := afero.ReadFile(s.fs, s.usersPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("failed to read users, starting empty", "error", err)
		}
		return users
	}
	if err := json.Unmarshal(data, &users); err != nil {
		log.Warn("failed to decode users, starting empty", "error", err)
		return Users{}
	}
	if users == nil {
		users = Users{}
	}
	return users
}

// LoadDecks returns the decks of a user. Missing or unreadable files yield an
// empty collection. A legacy list of deck names is upgraded and saved back.
func (s *FileStore) LoadDecks(username string) (Decks, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	mu := s.userLock(username)
	mu.Lock()
	defer mu.Unlock()
	return s.loadDecks(username), nil
}

// SaveDecks replaces the decks of a user.
func (s *FileStore) SaveDecks(username string, decks Decks) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	mu := s.userLock(username)
	mu.Lock()
	defer mu.Unlock()
	return s.writeJSON(s.decksPath(username), decks)
}

// UpdateDecks implements DeckStore.
func (s *FileStore) UpdateDecks(username string, fn func(decks Decks) (bool, error)) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	mu := s.userLock(username)
	mu.Lock()
	defer mu.Unlock()

	decks := s.loadDecks(username)
	changed, err := fn(decks)
	if err != nil || !changed {
		return err
	}
	return s.writeJSON(s.decksPath(username), decks)
}

func (s *FileStore) loadDecks(username string) Decks {
	path := s.decksPath(username)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("failed to read decks, starting empty", "user", username, "error", err)
		}
		return Decks{}
	}

	decks, legacy, err := decodeDecks(data)
	if err != nil {
		log.Warn("failed to decode decks, starting empty", "user", username, "error", err)
		return Decks{}
	}
	if legacy {
		log.Info("Upgrading legacy deck list", "user", username, "decks", len(decks))
		if err := s.writeJSON(path, decks); err != nil {
			log.Warn("failed to save upgraded decks", "user", username, "error", err)
		}
	}
	return decks
}

func (s *FileStore) userLock(username string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(username, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *FileStore) usersPath() string {
	return filepath.Join(s.dir, usersFile)
}

func (s *FileStore) decksPath(username string) string {
	return filepath.Join(s.dir, decksDir, username+".json")
}

// writeJSON writes v to a temp file next to path and renames it into place.
func (s *FileStore) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	tmp, err := afero.TempFile(s.fs, filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
