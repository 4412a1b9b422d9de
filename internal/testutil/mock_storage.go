// mock_storage.go - Mock layout store for testing
package testutil

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tany002/bhkinterior.com/internal/models"
	"github.com/tany002/bhkinterior.com/internal/storage"
)

// MockLayoutStore implements storage.LayoutStore in memory.
type MockLayoutStore struct {
	mu        sync.RWMutex
	revisions map[string]*models.LayoutRevision
	seq       int

	// SaveErr, when set, is returned by every SaveRevision call.
	SaveErr error
}

// NewMockLayoutStore creates an empty mock store.
func NewMockLayoutStore() *MockLayoutStore {
	return &MockLayoutStore{
		revisions: make(map[string]*models.LayoutRevision),
	}
}

func (m *MockLayoutStore) SaveRevision(rev *models.LayoutRevision) (*models.LayoutRevision, error) {
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := *rev
	out.Layout = rev.Layout.Clone()
	if out.ID == "" {
		m.seq++
		out.ID = generateTestID(m.seq)
	}
	if out.SavedAt.IsZero() {
		out.SavedAt = time.Now()
	}
	if out.LayoutID == "" {
		out.LayoutID = out.Layout.LayoutID
	}
	out.PlacementCount = len(out.Layout.Placements)

	m.revisions[out.ID] = &out
	return out.Clone(), nil
}

func (m *MockLayoutStore) GetRevision(id string) (*models.LayoutRevision, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rev, ok := m.revisions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return rev.Clone(), nil
}

func (m *MockLayoutStore) ListRevisions(layoutID string, limit int) ([]*models.LayoutRevision, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*models.LayoutRevision, 0)
	for _, rev := range m.revisions {
		if layoutID == "" || rev.LayoutID == layoutID {
			list = append(list, rev.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].SavedAt.After(list[j].SavedAt)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *MockLayoutStore) Close() error {
	return nil
}

// Ensure MockLayoutStore implements storage.LayoutStore
var _ storage.LayoutStore = (*MockLayoutStore)(nil)

// Test Helper Methods

// AddRevision stores a revision directly, keeping its id.
func (m *MockLayoutStore) AddRevision(rev *models.LayoutRevision) *models.LayoutRevision {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rev.ID == "" {
		m.seq++
		rev.ID = generateTestID(m.seq)
	}
	m.revisions[rev.ID] = rev
	return rev
}

// Count returns how many revisions are stored.
func (m *MockLayoutStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.revisions)
}

// ErrMockSave is a canned failure for SaveErr.
var ErrMockSave = errors.New("mock save failure")

func generateTestID(n int) string {
	return fmt.Sprintf("test-rev-%d", n)
}
