package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/lazyvibe/ghopen/internal/model"
)

var (
	// ErrNotFound is returned when an entity is not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned when a mapping is missing its identity or path.
	ErrInvalid = errors.New("invalid repository mapping")
)

// FileName is the name of the mapping file inside the config directory.
const FileName = "repositories.json"

// data represents the JSON file structure.
type data struct {
	Repositories []model.Repository `json:"repositories"`
}

// JSONStore implements Store using JSON file persistence. Several launcher
// processes may share one file, so every write re-reads the file under an
// exclusive advisory lock and every read refreshes under a shared one.
type JSONStore struct {
	mu   sync.RWMutex
	path string
	data *data
}

// NewJSONStore creates a new JSON file-based store.
func NewJSONStore(configDir string) (*JSONStore, error) {
	// Ensure config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}

	s := &JSONStore{
		path: filepath.Join(configDir, FileName),
		data: &data{Repositories: []model.Repository{}},
	}

	if err := s.withLock(false, s.load); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the backing file.
func (s *JSONStore) Path() string {
	return s.path
}

// load reads data from the JSON file. A missing file is an empty store.
func (s *JSONStore) load() error {
	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.data = &data{Repositories: []model.Repository{}}
		return nil
	}
	if err != nil {
		return err
	}

	fresh := &data{}
	if len(content) > 0 {
		if err := json.Unmarshal(content, fresh); err != nil {
			return fmt.Errorf("parse %s: %w", s.path, err)
		}
	}
	if fresh.Repositories == nil {
		fresh.Repositories = []model.Repository{}
	}
	s.data = fresh
	return nil
}

// save writes data to the JSON file.
func (s *JSONStore) save() error {
	content, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, content, 0644)
}

// withLock runs fn while holding the cross-process lock on the mapping file.
func (s *JSONStore) withLock(exclusive bool, fn func() error) error {
	lockFile, err := acquireFileLock(s.path, exclusive)
	if err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer releaseFileLock(lockFile)
	return fn()
}

// mutate reloads the file, applies fn and persists the result.
func (s *JSONStore) mutate(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withLock(true, func() error {
		if err := s.load(); err != nil {
			return err
		}
		if err := fn(); err != nil {
			return err
		}
		return s.save()
	})
}

// refresh reloads the file so reads see mappings written by other processes.
func (s *JSONStore) refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withLock(false, s.load)
}

// Close is a no-op; every write is persisted immediately.
func (s *JSONStore) Close() error {
	return nil
}

// ---------- RepositoryStore Implementation ----------

// List returns all mappings sorted by LastUsed descending.
func (s *JSONStore) List(_ context.Context) ([]model.Repository, error) {
	if err := s.refresh(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Repository, len(s.data.Repositories))
	copy(result, s.data.Repositories)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LastUsed > result[j].LastUsed
	})

	return result, nil
}

// Get retrieves the mapping for an identity.
func (s *JSONStore) Get(_ context.Context, identity string) (*model.Repository, error) {
	if err := s.refresh(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.data.Repositories {
		if s.data.Repositories[i].Identity == identity {
			r := s.data.Repositories[i]
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

// Put creates or replaces the mapping for r.Identity.
func (s *JSONStore) Put(_ context.Context, r *model.Repository) error {
	if r == nil || r.Identity == "" || r.Path == "" {
		return ErrInvalid
	}

	return s.mutate(func() error {
		for i := range s.data.Repositories {
			if s.data.Repositories[i].Identity == r.Identity {
				if r.CreatedAt == 0 {
					r.CreatedAt = s.data.Repositories[i].CreatedAt
				}
				s.data.Repositories[i] = *r
				return nil
			}
		}
		s.data.Repositories = append(s.data.Repositories, *r)
		return nil
	})
}

// Delete removes the mapping for an identity.
func (s *JSONStore) Delete(_ context.Context, identity string) error {
	return s.mutate(func() error {
		for i := range s.data.Repositories {
			if s.data.Repositories[i].Identity == identity {
				s.data.Repositories = append(s.data.Repositories[:i], s.data.Repositories[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
