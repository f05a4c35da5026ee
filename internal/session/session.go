// Package session persists the authenticated identity between client runs.
// It is the only durable client-side state: loaded at startup, written on
// sign-in, removed on sign-out.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/and161185/docuvault/internal/model"
)

// ErrNoSession indicates no valid cached session exists.
var ErrNoSession = errors.New("no valid session (login required)")

// Store reads and writes the session file under a config directory.
type Store struct{ dir string }

// NewStore constructs a store rooted at dir. An empty dir resolves to the
// user config directory (XDG_CONFIG_HOME aware).
func NewStore(dir string) *Store {
	if dir == "" {
		dir = defaultDir()
	}
	return &Store{dir: dir}
}

func defaultDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "docuvault")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "docuvault")
}

func (s *Store) path() string { return filepath.Join(s.dir, "session.json") }

// Load returns the cached session, or ErrNoSession when absent, unreadable,
// expired, or signed out.
func (s *Store) Load() (model.Session, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		return model.Session{}, ErrNoSession
	}
	var sess model.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return model.Session{}, ErrNoSession
	}
	if !sess.LoggedIn || sess.Token == "" || time.Now().After(sess.Expires) {
		return model.Session{}, ErrNoSession
	}
	return sess, nil
}

// Save writes the session with owner-only permissions.
func (s *Store) Save(sess model.Session) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), b, 0o600)
}

// Clear removes the session file; a missing file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
