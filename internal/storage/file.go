package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"
)

// FileStorage implements LocalStorage as a YAML map on an afero filesystem.
// Every write re-reads the file, applies the change and replaces the file
// atomically, so concurrent processes see whole documents and the latest
// writer wins.
type FileStorage struct {
	fs   afero.Fs
	path string

	mu sync.Mutex
}

// NewFileStorage creates a store backed by path on fs. The file is created lazily.
func NewFileStorage(fs afero.Fs, path string) (*FileStorage, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &FileStorage{fs: fs, path: path}, nil
}

// Path returns the backing file path.
func (s *FileStorage) Path() string {
	return s.path
}

func (s *FileStorage) GetItem(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (s *FileStorage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	items[key] = value
	return s.save(items)
}

func (s *FileStorage) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return s.save(items)
}

func (s *FileStorage) Close() error {
	return nil
}

func (s *FileStorage) load() (map[string]string, error) {
	items := make(map[string]string)
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return items, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return items, nil
	}
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return items, nil
}

func (s *FileStorage) save(items map[string]string) error {
	data, err := yaml.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode storage: %w", err)
	}
	return writeFileAtomic(s.fs, s.path, data, 0600)
}

// writeFileAtomic writes data to a temp file next to path and renames it into place.
func writeFileAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	f, err := afero.TempFile(fs, dir, ".local_storage-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()
	defer func() {
		_ = fs.Remove(tmpPath)
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := fs.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Watch reports changes to the backing file made by other processes until ctx
// is done. Only the OS filesystem can be watched.
func (s *FileStorage) Watch(ctx context.Context) (<-chan Change, error) {
	if _, ok := s.fs.(*afero.OsFs); !ok {
		return nil, ErrWatchUnsupported
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	// Watch the directory: atomic renames replace the file inode.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	s.mu.Lock()
	last, err := s.load()
	s.mu.Unlock()
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}

	out := make(chan Change, 8)
	go func() {
		defer close(out)
		defer func() { _ = watcher.Close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(s.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}

				s.mu.Lock()
				current, err := s.load()
				s.mu.Unlock()
				if err != nil {
					continue
				}

				for _, c := range diff(last, current) {
					select {
					case out <- c:
					case <-ctx.Done():
						return
					}
				}
				last = current
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}

func diff(before, after map[string]string) []Change {
	var changes []Change
	for k, nv := range after {
		ov, existed := before[k]
		if !existed || ov != nv {
			changes = append(changes, Change{Key: k, OldValue: ov, NewValue: nv})
		}
	}
	for k, ov := range before {
		if _, ok := after[k]; !ok {
			changes = append(changes, Change{Key: k, OldValue: ov, Removed: true})
		}
	}
	return changes
}
