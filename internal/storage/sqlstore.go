package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tany002/bhkinterior.com/internal/models"
)

// revisionsSchema is valid for both DuckDB and SQLite.
const revisionsSchema = `
	CREATE TABLE IF NOT EXISTS layout_revisions (
		id              VARCHAR PRIMARY KEY,
		layout_id       VARCHAR NOT NULL,
		session_id      VARCHAR,
		room_type       VARCHAR,
		placement_count INTEGER NOT NULL,
		saved_at        BIGINT NOT NULL,
		payload         VARCHAR NOT NULL
	)
`

// sqlStore implements LayoutStore over any database/sql driver that
// accepts ? placeholders. The layout payload is stored as JSON text.
type sqlStore struct {
	db *sql.DB
}

func newSQLStore(db *sql.DB) (*sqlStore, error) {
	if _, err := db.Exec(revisionsSchema); err != nil {
		return nil, fmt.Errorf("failed to create revisions table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_revisions_layout ON layout_revisions (layout_id, saved_at)`); err != nil {
		return nil, fmt.Errorf("failed to create revisions index: %w", err)
	}
	return &sqlStore{db: db}, nil
}

// SaveRevision inserts a revision row.
func (s *sqlStore) SaveRevision(rev *models.LayoutRevision) (*models.LayoutRevision, error) {
	out := prepareRevision(rev)

	payload, err := json.Marshal(out.Layout)
	if err != nil {
		return nil, fmt.Errorf("encoding layout: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO layout_revisions (id, layout_id, session_id, room_type, placement_count, saved_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.LayoutID, out.SessionID, out.RoomType, out.PlacementCount, out.SavedAt.UnixMilli(), string(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting revision: %w", err)
	}

	// round-trip precision matches what reads will return
	out.SavedAt = time.UnixMilli(out.SavedAt.UnixMilli())
	return out, nil
}

func scanRevision(scan func(dest ...any) error) (*models.LayoutRevision, error) {
	var (
		rev       models.LayoutRevision
		sessionID sql.NullString
		roomType  sql.NullString
		savedAt   int64
		payload   string
	)
	if err := scan(&rev.ID, &rev.LayoutID, &sessionID, &roomType, &rev.PlacementCount, &savedAt, &payload); err != nil {
		return nil, err
	}
	rev.SessionID = sessionID.String
	rev.RoomType = roomType.String
	rev.SavedAt = time.UnixMilli(savedAt)
	if err := json.Unmarshal([]byte(payload), &rev.Layout); err != nil {
		return nil, fmt.Errorf("decoding layout payload: %w", err)
	}
	return &rev, nil
}

const revisionColumns = `id, layout_id, session_id, room_type, placement_count, saved_at, payload`

// GetRevision returns a revision by id.
func (s *sqlStore) GetRevision(id string) (*models.LayoutRevision, error) {
	row := s.db.QueryRow(`SELECT `+revisionColumns+` FROM layout_revisions WHERE id = ?`, id)
	rev, err := scanRevision(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying revision: %w", err)
	}
	return rev, nil
}

// ListRevisions returns revisions of one layout, newest first. An empty
// layoutID lists every layout.
func (s *sqlStore) ListRevisions(layoutID string, limit int) ([]*models.LayoutRevision, error) {
	query := `SELECT ` + revisionColumns + ` FROM layout_revisions`
	var args []any
	if layoutID != "" {
		query += ` WHERE layout_id = ?`
		args = append(args, layoutID)
	}
	query += ` ORDER BY saved_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying revisions: %w", err)
	}
	defer rows.Close()

	list := make([]*models.LayoutRevision, 0)
	for rows.Next() {
		rev, err := scanRevision(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, rev)
	}
	return list, rows.Err()
}

// Close closes the database.
func (s *sqlStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
