package storage

import "errors"

// ErrNotLoaded is returned when a provider is used before Init or Load.
var ErrNotLoaded = errors.New("storage not loaded")

// Tx is the raw key/value view handed to Update callbacks.
type Tx interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Provider is a namespaced key/value backend. Values are opaque JSON documents.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Single key access
	Tx

	// Update runs fn as one all-or-nothing batch. Writes made by fn are
	// discarded if it returns an error.
	Update(fn func(tx Tx) error) error

	// Utils
	GetConfigPath() string
}
