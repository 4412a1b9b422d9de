package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Storage backends selectable from config.
const (
	BackendFile   = "file"
	BackendDuckDB = "duckdb"
	BackendSQLite = "sqlite"
)

// Open creates the revision store for backend rooted at dataDir.
func Open(backend, dataDir string) (LayoutStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFileStore(filepath.Join(dataDir, "revisions"))
	case BackendDuckDB:
		return NewDuckStore(filepath.Join(dataDir, "revisions.duckdb"))
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(dataDir, "revisions.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
