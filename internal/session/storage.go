package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage is the persisted key-value store backing the session,
// the equivalent of the browser's local storage. Implementations
// must tolerate unknown keys.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// MemoryStorage keeps values in memory only. Used in tests and for
// ephemeral, never-persisted sessions.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// FileStorage persists values as a single JSON object on disk. Reads
// happen once at open; every mutation rewrites the file.
type FileStorage struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

func OpenFileStorage(path string) (*FileStorage, error) {
	s := &FileStorage{path: path, values: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session storage: %w", err)
	}
	if errUnmarshal := json.Unmarshal(raw, &s.values); errUnmarshal != nil {
		// Corrupt state file: start clean rather than failing startup.
		s.values = make(map[string]string)
	}
	return s, nil
}

func (s *FileStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flush()
}

func (s *FileStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return s.flush()
}

func (s *FileStorage) flush() error {
	raw, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encode session storage: %w", err)
	}
	if errDir := os.MkdirAll(filepath.Dir(s.path), 0o700); errDir != nil {
		return fmt.Errorf("create state dir: %w", errDir)
	}
	if errWrite := os.WriteFile(s.path, raw, 0o600); errWrite != nil {
		return fmt.Errorf("write session storage: %w", errWrite)
	}
	return nil
}
