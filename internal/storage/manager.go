package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tany002/bhkinterior.com/internal/models"
)

// ErrNotFound is returned when a revision id is unknown.
var ErrNotFound = errors.New("revision not found")

// LayoutStore persists layouts saved from editor sessions.
type LayoutStore interface {
	SaveRevision(rev *models.LayoutRevision) (*models.LayoutRevision, error)
	GetRevision(id string) (*models.LayoutRevision, error)
	ListRevisions(layoutID string, limit int) ([]*models.LayoutRevision, error)
	Close() error
}

// prepareRevision fills the id, timestamp and count of a revision about to
// be stored.
func prepareRevision(rev *models.LayoutRevision) *models.LayoutRevision {
	out := *rev
	out.Layout = rev.Layout.Clone()
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.SavedAt.IsZero() {
		out.SavedAt = time.Now()
	}
	if out.LayoutID == "" {
		out.LayoutID = out.Layout.LayoutID
	}
	out.PlacementCount = len(out.Layout.Placements)
	return &out
}

// sortRevisions orders newest first and applies limit when positive.
func sortRevisions(list []*models.LayoutRevision, limit int) []*models.LayoutRevision {
	sort.Slice(list, func(i, j int) bool {
		return list[i].SavedAt.After(list[j].SavedAt)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

// FileStore keeps one JSON file per revision in a directory.
type FileStore struct {
	mu        sync.RWMutex
	dir       string
	revisions map[string]*models.LayoutRevision
}

// NewFileStore creates a FileStore, loading any revisions already on disk.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating revisions directory: %w", err)
	}

	s := &FileStore{
		dir:       dir,
		revisions: make(map[string]*models.LayoutRevision),
	}
	s.scanExisting()
	return s, nil
}

func (s *FileStore) revisionPath(id string) string {
	return filepath.Join(s.dir, fmt.Sprintf("revision_%s.json", id))
}

// scanExisting indexes revision files left by a previous run.
func (s *FileStore) scanExisting() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		fmt.Printf("[FileStore] Warning: failed to scan revisions directory: %v\n", err)
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "revision_") || filepath.Ext(name) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			fmt.Printf("[FileStore] Warning: failed to read %s: %v\n", name, err)
			continue
		}
		var rev models.LayoutRevision
		if err := json.Unmarshal(data, &rev); err != nil || rev.ID == "" {
			fmt.Printf("[FileStore] Warning: skipping unreadable revision %s\n", name)
			continue
		}
		s.revisions[rev.ID] = &rev
	}

	fmt.Printf("[FileStore] Loaded %d existing revisions\n", len(s.revisions))
}

// SaveRevision writes a revision to disk and indexes it.
func (s *FileStore) SaveRevision(rev *models.LayoutRevision) (*models.LayoutRevision, error) {
	out := prepareRevision(rev)

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding revision: %w", err)
	}

	path := s.revisionPath(out.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return nil, fmt.Errorf("writing revision: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("writing revision: %w", err)
	}

	s.mu.Lock()
	s.revisions[out.ID] = out
	s.mu.Unlock()

	return out.Clone(), nil
}

// GetRevision returns a copy of the revision with the given id.
func (s *FileStore) GetRevision(id string) (*models.LayoutRevision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rev, ok := s.revisions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rev.Clone(), nil
}

// ListRevisions returns revisions of one layout, newest first. An empty
// layoutID lists every layout.
func (s *FileStore) ListRevisions(layoutID string, limit int) ([]*models.LayoutRevision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.LayoutRevision, 0)
	for _, rev := range s.revisions {
		if layoutID == "" || rev.LayoutID == layoutID {
			list = append(list, rev.Clone())
		}
	}
	return sortRevisions(list, limit), nil
}

// Close is a no-op; every write is already on disk.
func (s *FileStore) Close() error {
	return nil
}
