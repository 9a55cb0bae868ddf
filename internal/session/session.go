// Package session persists the single user identifier the dashboard resumes with.
package session

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/voltsight/internal/storage"
	"github.com/josephgoksu/voltsight/models"
)

// Key is the local storage key holding the user id.
const Key = "userId"

// Store reads and writes the persisted session.
type Store struct {
	ls storage.LocalStorage
}

// NewStore wraps a local storage backend.
func NewStore(ls storage.LocalStorage) *Store {
	return &Store{ls: ls}
}

// Load returns the saved session. ok is false when no user id is stored.
func (s *Store) Load() (models.Session, bool, error) {
	v, ok, err := s.ls.GetItem(Key)
	if err != nil {
		return models.Session{}, false, fmt.Errorf("load session: %w", err)
	}
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return models.Session{}, false, nil
	}
	return models.Session{UserID: v}, true, nil
}

// Save persists the session, replacing whatever another writer stored.
func (s *Store) Save(sess models.Session) error {
	if sess.IsZero() {
		return fmt.Errorf("save session: empty user id")
	}
	if err := s.ls.SetItem(Key, sess.UserID); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes the persisted session.
func (s *Store) Clear() error {
	if err := s.ls.RemoveItem(Key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
