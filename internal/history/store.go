package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrCorrupt is returned by Load when the history file is not a JSON array
// of strings.
var ErrCorrupt = errors.New("history file is corrupt")

// replaceFile moves the finished temp file over the history file.
var replaceFile = os.Rename

// Store is the set of already published item links, persisted as a flat
// JSON array.
type Store struct {
	mu   sync.RWMutex
	path string
	ids  map[string]struct{}
}

func New(path string) *Store {
	return &Store{
		path: path,
		ids:  make(map[string]struct{}),
	}
}

func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory set with the file contents. A missing or empty
// file yields an empty set.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = make(map[string]struct{})

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read history %s: %w", s.path, err)
	}

	if len(data) == 0 {
		return nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}

	for _, id := range ids {
		s.ids[id] = struct{}{}
	}

	return nil
}

// Save rewrites the whole file. The data goes to a temp file first, so the
// previous history survives a failed write.
func (s *Store) Save() error {
	data, err := json.Marshal(s.IDs())
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close history: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod history: %w", err)
	}
	if err := replaceFile(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace history %s: %w", s.path, err)
	}

	return nil
}

func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.ids[id]
	return exists
}

func (s *Store) Add(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if id == "" {
			continue
		}
		s.ids[id] = struct{}{}
	}
}

// Remove drops ids from the in-memory set; the file changes on the next Save.
func (s *Store) Remove(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.ids, id)
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.ids)
}

// IDs returns the identifiers sorted, for stable file contents.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}
