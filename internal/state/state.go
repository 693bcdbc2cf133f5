// Package state persists small per-book records, such as the encoded reading
// address, in a JSON file.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const stateFileName = "positions.json"

// Store maps a book id to a set of string records.
type Store struct {
	path string

	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewStore opens the store in dir, creating the directory when needed. A
// corrupt state file is ignored and overwritten on the next Set.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("state: create %s: %w", dir, err)
	}
	s := &Store{
		path: filepath.Join(dir, stateFileName),
		data: make(map[string]map[string]string),
	}
	if err := s.load(); err != nil {
		s.data = make(map[string]map[string]string)
	}
	return s, nil
}

// Path returns the location of the state file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the record stored for book under key.
func (s *Store) Get(book, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[book][key]
	return v, ok
}

// Set stores value for book under key and writes the file.
func (s *Store) Set(book, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data[book]
	if !ok {
		rec = make(map[string]string)
		s.data[book] = rec
	}
	rec[key] = value
	return s.save()
}

// Delete removes every record of book.
func (s *Store) Delete(book string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[book]; !ok {
		return nil
	}
	delete(s.data, book)
	return s.save()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

// save writes through a temporary file so a crash never leaves a truncated
// state file behind.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("state: encode: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("state: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("state: replace: %w", err)
	}
	return nil
}
