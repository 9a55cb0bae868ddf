// Package storage provides a small durable key/value store modelled on the
// browser's localStorage. The dashboard keeps exactly one key in it.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

const (
	sqliteFileName = "local_storage.db"
	yamlFileName   = "local_storage.yaml"
)

// ErrWatchUnsupported is returned by Watch on backends that cannot observe
// writes made by other processes.
var ErrWatchUnsupported = errors.New("storage backend does not support watching")

// LocalStorage is a string key/value store. Writes are last-writer-wins;
// nothing is locked across processes.
type LocalStorage interface {
	// GetItem returns the value for key and whether it was present.
	GetItem(key string) (string, bool, error)
	// SetItem stores value under key, replacing any previous value.
	SetItem(key, value string) error
	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(key string) error
	// Close releases the backend.
	Close() error
}

// Change describes a key whose value was altered outside this process.
type Change struct {
	Key      string
	OldValue string
	NewValue string
	Removed  bool
}

// Open creates the configured backend rooted at dir.
func Open(backend, dir string) (LocalStorage, error) {
	switch backend {
	case BackendSQLite, "":
		if dir == ":memory:" {
			return NewSQLiteStorage(":memory:")
		}
		return NewSQLiteStorage(filepath.Join(dir, sqliteFileName))
	case BackendFile:
		return NewFileStorage(afero.NewOsFs(), filepath.Join(dir, yamlFileName))
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %s or %s)", backend, BackendSQLite, BackendFile)
	}
}
