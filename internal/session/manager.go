package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tany002/bhkinterior.com/internal/editor"
	"github.com/tany002/bhkinterior.com/internal/layout"
	"github.com/tany002/bhkinterior.com/internal/models"
	"github.com/tany002/bhkinterior.com/internal/storage"
)

// MaxSessions is the default cap on concurrently hosted sessions.
const MaxSessions = 50

// SessionMaxAge is how long an untouched session is kept before cleanup.
const SessionMaxAge = 30 * time.Minute

// SessionKeepAliveWindow is how long to keep sessions that are actively being used
const SessionKeepAliveWindow = 5 * time.Minute

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many open editor sessions")
)

// Options configures every session a Manager opens.
type Options struct {
	Canvas      layout.Canvas
	Catalog     *layout.Catalog
	MaxSessions int
}

// Manager hosts editor sessions. Events for one session run one at a time
// under that session's lock; different sessions proceed in parallel.
type Manager struct {
	sessions map[string]*SessionState
	mu       sync.RWMutex
	store    storage.LayoutStore
	opts     Options
	now      func() time.Time
}

// SessionState is one hosted editor plus its bookkeeping. All fields are
// guarded by mu.
type SessionState struct {
	mu           sync.Mutex
	id           string
	editor       *editor.Editor
	openedAt     time.Time
	lastAccessed time.Time
	saved        *models.LayoutProposal
	revisionID   string
}

// NewManager creates a session manager. A nil store keeps saved layouts in
// memory only.
func NewManager(store storage.LayoutStore, opts Options) *Manager {
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = MaxSessions
	}
	if opts.Catalog == nil {
		opts.Catalog = layout.DefaultCatalog()
	}
	opts.Canvas = opts.Canvas.WithDefaults()

	return &Manager{
		sessions: make(map[string]*SessionState),
		store:    store,
		opts:     opts,
		now:      time.Now,
	}
}

// Catalog returns the palette offered to every session.
func (m *Manager) Catalog() *layout.Catalog { return m.opts.Catalog }

// Canvas returns the coordinate mapping shared by every session.
func (m *Manager) Canvas() layout.Canvas { return m.opts.Canvas }

// Open starts an editing session on a copy of l.
func (m *Manager) Open(l models.LayoutProposal, roomType string, backgroundImage *string) (*models.SessionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.opts.MaxSessions {
		m.evictClosedLocked()
		if len(m.sessions) >= m.opts.MaxSessions {
			return nil, ErrTooManySessions
		}
	}

	id := uuid.New().String()
	now := m.now()
	state := &SessionState{
		id:           id,
		openedAt:     now,
		lastAccessed: now,
	}
	state.editor = editor.Open(l, roomType, backgroundImage, editor.Options{
		Canvas:  m.opts.Canvas,
		Catalog: m.opts.Catalog,
		OnSave: func(saved models.LayoutProposal) {
			state.saved = &saved
		},
		OnCancel: func() {
			fmt.Printf("[Session %s] Cancelled, working copy discarded\n", shortID(id))
		},
	})
	m.sessions[id] = state

	fmt.Printf("[Session %s] Opened layout %q (%s) with %d placements\n",
		shortID(id), l.LayoutID, roomType, len(l.Placements))

	return state.info(), nil
}

// evictClosedLocked drops saved or cancelled sessions, least recently used
// first, until there is room for one more. Caller holds m.mu.
func (m *Manager) evictClosedLocked() {
	type candidate struct {
		id   string
		last time.Time
	}
	var closed []candidate
	for id, state := range m.sessions {
		state.mu.Lock()
		if state.editor.Closed() {
			closed = append(closed, candidate{id: id, last: state.lastAccessed})
		}
		state.mu.Unlock()
	}

	sort.Slice(closed, func(i, j int) bool {
		return closed[i].last.Before(closed[j].last)
	})

	toFree := len(m.sessions) - m.opts.MaxSessions + 1
	for i := 0; i < toFree && i < len(closed); i++ {
		delete(m.sessions, closed[i].id)
		fmt.Printf("[Manager] Evicted closed session %s to make room\n", shortID(closed[i].id))
	}
}

func (m *Manager) lookup(id string) (*SessionState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return state, nil
}

// Do runs fn against the session's editor under the session lock and marks
// the session as used.
func (m *Manager) Do(id string, fn func(*editor.Editor) error) error {
	state, err := m.lookup(id)
	if err != nil {
		return err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	state.lastAccessed = m.now()
	return fn(state.editor)
}

// Apply runs fn like Do and returns the render state observed right after
// it, under the same lock. The state is returned even when fn fails.
func (m *Manager) Apply(id string, fn func(*editor.Editor) error) (models.EditorState, error) {
	var st models.EditorState
	err := m.Do(id, func(ed *editor.Editor) error {
		fnErr := fn(ed)
		st = ed.State()
		st.SessionID = id
		return fnErr
	})
	return st, err
}

// State returns the render state of a session.
func (m *Manager) State(id string) (models.EditorState, error) {
	return m.Apply(id, func(*editor.Editor) error { return nil })
}

// Save ends the session with a save and persists the result as a revision.
// When persisting fails the session stays saved and the layout is still
// returned alongside the error.
func (m *Manager) Save(id string) (models.LayoutProposal, *models.LayoutRevision, error) {
	state, err := m.lookup(id)
	if err != nil {
		return models.LayoutProposal{}, nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	state.lastAccessed = m.now()

	roomType := state.editor.RoomType()
	saved, err := state.editor.Save()
	if err != nil {
		return models.LayoutProposal{}, nil, err
	}

	fmt.Printf("[Session %s] Saved layout %q with %d placements\n",
		shortID(id), saved.LayoutID, len(saved.Placements))

	if m.store == nil {
		return saved, nil, nil
	}

	rev, err := m.store.SaveRevision(&models.LayoutRevision{
		LayoutID:  saved.LayoutID,
		SessionID: id,
		RoomType:  roomType,
		Layout:    saved,
	})
	if err != nil {
		fmt.Printf("[Session %s] ERROR: failed to persist revision: %v\n", shortID(id), err)
		return saved, nil, fmt.Errorf("persisting revision: %w", err)
	}
	state.revisionID = rev.ID
	return saved, rev, nil
}

// Cancel ends the session, discarding its working copy.
func (m *Manager) Cancel(id string) error {
	return m.Do(id, func(ed *editor.Editor) error {
		return ed.Cancel()
	})
}

// Get returns the metadata of a session.
func (m *Manager) Get(id string) (*models.SessionInfo, bool) {
	state, err := m.lookup(id)
	if err != nil {
		return nil, false
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	return state.info(), true
}

// Touch updates the LastAccessed timestamp for a session so cleanup skips it.
func (m *Manager) Touch(id string) bool {
	state, err := m.lookup(id)
	if err != nil {
		return false
	}

	state.mu.Lock()
	state.lastAccessed = m.now()
	state.mu.Unlock()
	return true
}

// CleanupOldSessions removes sessions not accessed for maxAge, never
// touching one used within SessionKeepAliveWindow. Open sessions are
// dropped without firing any callback. Returns how many were removed.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-maxAge)
	keepAliveCutoff := now.Add(-SessionKeepAliveWindow)

	removed := 0
	for id, state := range m.sessions {
		state.mu.Lock()
		last := state.lastAccessed
		status := state.editor.Status()
		state.mu.Unlock()

		if last.After(keepAliveCutoff) || !last.Before(cutoff) {
			continue
		}

		delete(m.sessions, id)
		removed++
		fmt.Printf("[Manager] Cleaned up %s session %s (last accessed: %s ago)\n",
			status, shortID(id), now.Sub(last).Round(time.Second))
	}
	return removed
}

// Count returns the number of hosted sessions, open or closed.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// info snapshots the session metadata. Caller holds s.mu.
func (s *SessionState) info() *models.SessionInfo {
	info := &models.SessionInfo{
		ID:           s.id,
		Status:       s.editor.Status(),
		RoomType:     s.editor.RoomType(),
		LayoutID:     s.editor.LayoutID(),
		OpenedAt:     s.openedAt,
		LastAccessed: s.lastAccessed,
		RevisionID:   s.revisionID,
	}
	if s.saved != nil {
		saved := s.saved.Clone()
		info.Saved = &saved
	}
	return info
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
