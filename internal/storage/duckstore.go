package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb"
)

// DuckStore keeps revisions in a DuckDB table, one row per save.
type DuckStore struct {
	*sqlStore
	dbPath string
}

// NewDuckStore opens (or creates) the revisions database at dbPath.
func NewDuckStore(dbPath string) (*DuckStore, error) {
	fmt.Printf("[DuckStore] Opening revisions database at: %s\n", dbPath)

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				fmt.Printf("[DuckStore] Pragma warning: %v\n", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)
	store, err := newSQLStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &DuckStore{sqlStore: store, dbPath: dbPath}, nil
}
