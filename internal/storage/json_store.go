package storage

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

// document is the on-disk layout of a JSON store file
type document struct {
	Version int                        `json:"version"`
	Values  map[string]json.RawMessage `json:"values"`
}

// JSONStore keeps every key in a single JSON file that is rewritten atomically.
type JSONStore struct {
	path string

	mu     sync.Mutex
	values map[string]json.RawMessage
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]json.RawMessage)
	return s.save(s.values)
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload()
}

func (s *JSONStore) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'companion init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Values == nil {
		doc.Values = make(map[string]json.RawMessage)
	}
	s.values = doc.Values
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes values to a temp file and renames it over the store file
func (s *JSONStore) save(values map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(document{Version: 1, Values: values}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set storage permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		return nil, false, ErrNotLoaded
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *JSONStore) Set(key string, value []byte) error {
	return s.Update(func(tx Tx) error { return tx.Set(key, value) })
}

func (s *JSONStore) Delete(key string) error {
	return s.Update(func(tx Tx) error { return tx.Delete(key) })
}

// Update re-reads the file so writes from other processes are not clobbered,
// applies fn to a copy and persists the copy only if fn succeeds.
func (s *JSONStore) Update(fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		return ErrNotLoaded
	}
	if err := s.reload(); err != nil {
		return err
	}

	tx := &mapTx{values: maps.Clone(s.values)}
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty {
		return nil
	}
	if err := s.save(tx.values); err != nil {
		return err
	}
	s.values = tx.values
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// mapTx stages writes against a private copy of the key space
type mapTx struct {
	values map[string]json.RawMessage
	dirty  bool
}

func (t *mapTx) Get(key string) ([]byte, bool, error) {
	v, ok := t.values[key]
	return v, ok, nil
}

func (t *mapTx) Set(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %s is not valid JSON", key)
	}
	t.values[key] = append(json.RawMessage(nil), value...)
	t.dirty = true
	return nil
}

func (t *mapTx) Delete(key string) error {
	if _, ok := t.values[key]; ok {
		delete(t.values, key)
		t.dirty = true
	}
	return nil
}
