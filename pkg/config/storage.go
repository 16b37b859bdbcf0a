package config

import (
	"fmt"
	"sync"
)

// SectionIDStorage is the identifier for the note storage section.
const SectionIDStorage = "storage"

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// StorageSection selects where notes live.
type StorageSection struct {
	Backend string
	Path    string
	mu      sync.RWMutex
}

func NewStorageSection() *StorageSection {
	return &StorageSection{Backend: BackendFile}
}

func (s *StorageSection) ID() string    { return SectionIDStorage }
func (s *StorageSection) Title() string { return "Storage" }

func (s *StorageSection) Description() string {
	return "Note storage. backend is file (JSON) or sqlite; an empty path uses ~/.nebula/notes.json or ~/.nebula/notes.db."
}

func (s *StorageSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"backend": s.Backend,
		"path":    s.Path,
	}
}

func (s *StorageSection) SetData(data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if backend, ok := data["backend"].(string); ok && backend != "" {
		s.Backend = backend
	}
	if path, ok := data["path"].(string); ok {
		s.Path = path
	}
	return nil
}

func (s *StorageSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Backend != BackendFile && s.Backend != BackendSQLite {
		return fmt.Errorf("unknown storage backend %q", s.Backend)
	}
	return nil
}

func (s *StorageSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Backend = BackendFile
	s.Path = ""
}

// Settings returns the backend and path together.
func (s *StorageSection) Settings() (backend, path string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Backend, s.Path
}
