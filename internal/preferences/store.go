// Package preferences persists the small set of user preferences ctxcopy
// keeps between runs: the ignored folder list and the welcome flag.
package preferences

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/temirov/ctxcopy/internal/utils"
)

// Store is a string key/value store.
type Store interface {
	GetItem(key string) (string, bool)
	SetItem(key string, value string) error
}

// MemoryStore keeps preferences in memory only.
type MemoryStore struct {
	mutex  sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (store *MemoryStore) GetItem(key string) (string, bool) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	value, exists := store.values[key]
	return value, exists
}

func (store *MemoryStore) SetItem(key string, value string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.values[key] = value
	return nil
}

// FileStore keeps preferences in a YAML mapping on disk and rewrites the
// file on every SetItem.
type FileStore struct {
	mutex  sync.RWMutex
	path   string
	values map[string]string
}

// DefaultFilePath returns ~/.ctxcopy/preferences.yaml.
func DefaultFilePath() (string, error) {
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.PreferencesFileName), nil
}

// OpenFileStore loads the store at path. A missing file yields an empty store.
func OpenFileStore(path string) (*FileStore, error) {
	store := &FileStore{path: path, values: map[string]string{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("read preferences %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &store.values); err != nil {
		return nil, fmt.Errorf("parse preferences %s: %w", path, err)
	}
	if store.values == nil {
		store.values = map[string]string{}
	}
	return store, nil
}

// Path returns the backing file path.
func (store *FileStore) Path() string {
	return store.path
}

func (store *FileStore) GetItem(key string) (string, bool) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	value, exists := store.values[key]
	return value, exists
}

func (store *FileStore) SetItem(key string, value string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	previous, existed := store.values[key]
	store.values[key] = value
	if err := store.save(); err != nil {
		if existed {
			store.values[key] = previous
		} else {
			delete(store.values, key)
		}
		return err
	}
	return nil
}

func (store *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}
	data, err := yaml.Marshal(store.values)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	temporaryPath := store.path + ".tmp"
	if err := os.WriteFile(temporaryPath, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(temporaryPath, store.path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
)
