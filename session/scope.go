package session

import (
	"encoding/json"
	"os"
	"sync"
)

// Scope is a flat key/value storage area for session state. The [Store]
// drives two of them: a persistent scope that survives process restarts and
// an ephemeral scope that does not.
type Scope interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// MemScope is an in-process [Scope]. It backs the ephemeral storage area.
type MemScope struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemScope returns an empty in-memory scope.
func NewMemScope() *MemScope {
	return &MemScope{values: make(map[string]string)}
}

// Get implements [Scope].
func (s *MemScope) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set implements [Scope].
func (s *MemScope) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete implements [Scope].
func (s *MemScope) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// FileScope is a [Scope] persisted as a JSON file. It backs the persistent
// storage area chosen by "remember me".
type FileScope struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewFileScope loads (or initializes) the scope stored at path. A missing
// file is an empty scope; it is created on first write.
func NewFileScope(path string) (*FileScope, error) {
	s := &FileScope{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.values); err != nil {
			// Unreadable state is treated as logged-out, not fatal.
			s.values = make(map[string]string)
		}
	}
	return s, nil
}

// Get implements [Scope].
func (s *FileScope) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set implements [Scope].
func (s *FileScope) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flushLocked()
}

// Delete implements [Scope].
func (s *FileScope) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flushLocked()
}

func (s *FileScope) flushLocked() error {
	data, err := json.Marshal(s.values)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
