package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	pkgio "github.com/matzehuels/influencemap/pkg/io"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// FileStore keeps one JSON file per key in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store.
// If baseDir is empty, defaults to $XDG_CONFIG_HOME/influencemap/maps.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// DefaultDir returns the default file store directory.
func DefaultDir() (string, error) {
	config, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(config, "influencemap", "maps"), nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.baseDir, key+".json")
}

func (s *FileStore) Save(ctx context.Context, key string, set stakeholder.Set) error {
	if err := checkKey(key); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(set, &buf); err != nil {
		return saveErr("file", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.baseDir, key+".*.tmp")
	if err != nil {
		return saveErr("file", key, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return saveErr("file", key, err)
	}
	if err := tmp.Close(); err != nil {
		return saveErr("file", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return saveErr("file", key, err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, key string) (stakeholder.Set, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, loadErr("file", key, err)
	}
	defer f.Close()

	set, err := pkgio.ReadJSON(f)
	if err != nil {
		return nil, false, loadErr("file", key, err)
	}
	return set, true, nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory of the store.
func (s *FileStore) Path() string { return s.baseDir }

// KeyPath returns the file that holds key.
func (s *FileStore) KeyPath(key string) string { return s.path(key) }

func (s *FileStore) String() string { return describe("file", s.baseDir) }

var _ Store = (*FileStore)(nil)
