package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Cookie is the persisted form of a session cookie. Path is the scope the
// service issued it under; empty means the whole origin.
type Cookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitzero"`
}

// State is what survives between invocations.
type State struct {
	Username string    `json:"username,omitempty"`
	Cookies  []Cookie  `json:"cookies"`
	SavedAt  time.Time `json:"saved_at"`
}

// Empty reports whether the state carries no credential.
func (s State) Empty() bool {
	return len(s.Cookies) == 0
}

// Live returns the cookies that have not expired by now.
func (s State) Live(now time.Time) []Cookie {
	out := make([]Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		if !c.Expires.IsZero() && !c.Expires.After(now) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Store abstracts persistence for session state.
type Store interface {
	Load() (State, error)
	Save(State) error
	Clear() error
}

// FileStore writes session state to a JSON file on disk.
type FileStore struct {
	path string
	lock *flock.Flock
}

// NewFileStore builds a FileStore at path, locking through lockPath.
func NewFileStore(path, lockPath string) *FileStore {
	if lockPath == "" {
		lockPath = path + ".lock"
	}
	return &FileStore{path: path, lock: flock.New(lockPath)}
}

// Path returns the session file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads session state from disk. A missing file resolves to an empty state.
func (s *FileStore) Load() (State, error) {
	if err := s.ensureDir(); err != nil {
		return State{}, err
	}
	if err := s.lock.RLock(); err != nil {
		return State{}, fmt.Errorf("lock session state: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("read session state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("decode session state: %w", err)
	}
	return state, nil
}

// Save persists session state with restricted permissions. The file is
// replaced atomically.
func (s *FileStore) Save(state State) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock session state: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.json")
	if err != nil {
		return fmt.Errorf("create session temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("restrict session temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace session state: %w", err)
	}
	return nil
}

// Clear removes the session file. A missing file is not an error.
func (s *FileStore) Clear() error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock session state: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session state: %w", err)
	}
	return nil
}

func (s *FileStore) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("ensure session directory: %w", err)
	}
	return nil
}

func toStored(cookies []*http.Cookie) []Cookie {
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}
		out = append(out, Cookie{Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires})
	}
	return out
}

func toHTTP(cookies []Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		path := c.Path
		if path == "" {
			path = "/"
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value, Path: path, Expires: c.Expires})
	}
	return out
}
