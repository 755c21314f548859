package storage

import (
	"path/filepath"
	"strings"

	"github.com/julianstephens/companion/internal/constants"
)

// NewProvider picks a backend from the config path: ":memory:" is process-local,
// a ".json" file is a JSON document, anything else is a SQLite database.
func NewProvider(path string) Provider {
	switch {
	case path == constants.MemoryStorePath:
		return NewMemoryStore()
	case strings.EqualFold(filepath.Ext(path), ".json"):
		return NewJSONStore(path)
	default:
		return NewSQLiteStore(path)
	}
}
