package models

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultSaveDir holds the field snapshot and log files.
const DefaultSaveDir = ".wikigen"

// Store persists raw field values by field id. Writes are write-through:
// a Write that returns nil is durable.
type Store interface {
	// Read returns the value of key, or "" when it was never written.
	Read(key string) (string, error)
	Write(key, value string) error
	// Clear resets every field to its default (empty) value.
	Clear() error
	Close() error
}

// LoadFields reads every known field from s.
func LoadFields(s Store) (Fields, error) {
	fields := Fields{}
	for _, id := range FieldIDs() {
		v, err := s.Read(id)
		if err != nil {
			return nil, fmt.Errorf("read field %q: %w", id, err)
		}
		fields[id] = v
	}
	return fields, nil
}

// LoadFieldsFile reads a YAML snapshot (a mapping of field id to value)
// without opening a store.
func LoadFieldsFile(path string) (Fields, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fields := Fields{}
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fields, nil
}

// YAMLStore keeps all fields in one YAML file, rewritten on every Write.
type YAMLStore struct {
	path string

	mu     sync.Mutex
	fields Fields
}

var _ Store = (*YAMLStore)(nil)

// OpenYAMLStore loads the snapshot at path, starting empty if the file does
// not exist yet.
func OpenYAMLStore(path string) (*YAMLStore, error) {
	s := &YAMLStore{path: path, fields: Fields{}}
	fields, err := LoadFieldsFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		s.fields = fields
	}
	return s, nil
}

// Path returns the snapshot file path.
func (s *YAMLStore) Path() string { return s.path }

func (s *YAMLStore) Read(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields[key], nil
}

func (s *YAMLStore) Write(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[key] = value
	return s.save()
}

func (s *YAMLStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = Fields{}
	return s.save()
}

func (s *YAMLStore) Close() error { return nil }

// save writes the snapshot through a temp file so readers never see a
// partial file. Callers hold mu.
func (s *YAMLStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(s.fields)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// MemoryStore keeps fields in memory only.
type MemoryStore struct {
	mu     sync.Mutex
	fields Fields
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store seeded with a copy of initial.
func NewMemoryStore(initial Fields) *MemoryStore {
	f := Fields{}
	maps.Copy(f, initial)
	return &MemoryStore{fields: f}
}

func (s *MemoryStore) Read(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields[key], nil
}

func (s *MemoryStore) Write(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[key] = value
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = Fields{}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
