package storage

import (
	"encoding/json"
	"maps"
	"sync"

	"github.com/julianstephens/companion/internal/constants"
)

// MemoryStore is a process-local provider used by tests and the :memory: config path.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[string]json.RawMessage)
	}
	return nil
}

func (s *MemoryStore) Load() error {
	return s.Init()
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		return nil, false, ErrNotLoaded
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	return s.Update(func(tx Tx) error { return tx.Set(key, value) })
}

func (s *MemoryStore) Delete(key string) error {
	return s.Update(func(tx Tx) error { return tx.Delete(key) })
}

func (s *MemoryStore) Update(fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		return ErrNotLoaded
	}
	tx := &mapTx{values: maps.Clone(s.values)}
	if err := fn(tx); err != nil {
		return err
	}
	s.values = tx.values
	return nil
}

func (s *MemoryStore) GetConfigPath() string {
	return constants.MemoryStorePath
}
