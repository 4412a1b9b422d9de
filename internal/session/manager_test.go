package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tany002/bhkinterior.com/internal/editor"
	"github.com/tany002/bhkinterior.com/internal/layout"
	"github.com/tany002/bhkinterior.com/internal/models"
	"github.com/tany002/bhkinterior.com/internal/testutil"
)

func testLayout() models.LayoutProposal {
	return models.LayoutProposal{
		LayoutID:   "layout-1",
		StyleToken: "scandi",
		Placements: []models.FurniturePlacement{
			{ItemType: "Sofa", XM: 1, YM: 1, WidthM: 2.2, DepthM: 0.9},
			{ItemType: "Bed", XM: 5, YM: 5, WidthM: 1.6, DepthM: 2.0},
		},
		ShortRationale: "Bed away from the door",
	}
}

// fakeClock lets tests move time without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestManager(t *testing.T, maxSessions int) (*Manager, *testutil.MockLayoutStore, *fakeClock) {
	t.Helper()
	store := testutil.NewMockLayoutStore()
	m := NewManager(store, Options{MaxSessions: maxSessions})
	clock := &fakeClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	m.now = clock.Now
	return m, store, clock
}

func TestOpenAndState(t *testing.T) {
	m, _, _ := newTestManager(t, 0)

	bg := "plan.png"
	info, err := m.Open(testLayout(), "bedroom", &bg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if info.ID == "" || info.Status != models.SessionStatusOpen {
		t.Fatalf("Unexpected session info: %+v", info)
	}
	if info.LayoutID != "layout-1" || info.RoomType != "bedroom" {
		t.Errorf("Unexpected session metadata: %+v", info)
	}

	st, err := m.State(info.ID)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if st.SessionID != info.ID {
		t.Errorf("Expected state to carry session id %s, got %s", info.ID, st.SessionID)
	}
	if len(st.Placements) != 2 {
		t.Errorf("Expected 2 placements, got %d", len(st.Placements))
	}
	if st.BackgroundImage == nil || *st.BackgroundImage != "plan.png" {
		t.Errorf("Expected background image to pass through")
	}
	if m.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", m.Count())
	}
}

func TestUnknownSession(t *testing.T) {
	m, _, _ := newTestManager(t, 0)

	if _, err := m.State("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound from State, got %v", err)
	}
	if _, _, err := m.Save("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound from Save, got %v", err)
	}
	if err := m.Cancel("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound from Cancel, got %v", err)
	}
	if m.Touch("nope") {
		t.Error("Expected Touch to report missing session")
	}
	if _, ok := m.Get("nope"); ok {
		t.Error("Expected Get to report missing session")
	}
}

func TestApplyReturnsStateAfterEdit(t *testing.T) {
	m, _, _ := newTestManager(t, 0)
	info, _ := m.Open(testLayout(), "living_room", nil)

	st, err := m.Apply(info.ID, func(ed *editor.Editor) error {
		_, err := ed.AddByLabel("Coffee Table")
		return err
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(st.Placements) != 3 {
		t.Fatalf("Expected 3 placements after insert, got %d", len(st.Placements))
	}
	if st.Selected == nil || *st.Selected != 2 {
		t.Errorf("Expected new item selected at index 2, got %v", st.Selected)
	}

	// a failing operation still reports the unchanged state
	st, err = m.Apply(info.ID, func(ed *editor.Editor) error {
		return ed.SetWidth(-1)
	})
	if !errors.Is(err, editor.ErrInvalidDimension) {
		t.Errorf("Expected ErrInvalidDimension, got %v", err)
	}
	if st.Placements[2].WidthM <= 0 {
		t.Error("Expected width to keep its last valid value")
	}
}

func TestSavePersistsRevision(t *testing.T) {
	m, store, _ := newTestManager(t, 0)
	info, _ := m.Open(testLayout(), "bedroom", nil)

	_, err := m.Apply(info.ID, func(ed *editor.Editor) error {
		if err := ed.PointerDownBody(0, layout.Point{X: 50, Y: 50}); err != nil {
			return err
		}
		if err := ed.PointerMove(layout.Point{X: 150, Y: 100}); err != nil {
			return err
		}
		return ed.PointerUp()
	})
	if err != nil {
		t.Fatalf("Drag failed: %v", err)
	}

	saved, rev, err := m.Save(info.ID)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.ShortRationale != "Bed away from the door"+editor.UserCustomizedNote {
		t.Errorf("Unexpected rationale %q", saved.ShortRationale)
	}
	if saved.AutoFixed == nil || !*saved.AutoFixed {
		t.Error("Expected auto_fixed to be set")
	}
	wantX, wantY := layout.Snap(3, layout.DefaultSnap), layout.Snap(2, layout.DefaultSnap)
	if saved.Placements[0].XM != wantX || saved.Placements[0].YM != wantY {
		t.Errorf("Expected dragged sofa at (3,2), got (%v,%v)", saved.Placements[0].XM, saved.Placements[0].YM)
	}

	if rev == nil || store.Count() != 1 {
		t.Fatalf("Expected one stored revision, got %d", store.Count())
	}
	if rev.SessionID != info.ID || rev.RoomType != "bedroom" || rev.LayoutID != "layout-1" {
		t.Errorf("Unexpected revision metadata: %+v", rev)
	}

	got, ok := m.Get(info.ID)
	if !ok {
		t.Fatal("Expected saved session to remain readable")
	}
	if got.Status != models.SessionStatusSaved || got.Saved == nil || got.RevisionID != rev.ID {
		t.Errorf("Unexpected info after save: %+v", got)
	}
}

func TestSaveAndCancelAreTerminal(t *testing.T) {
	m, store, _ := newTestManager(t, 0)

	saved, _ := m.Open(testLayout(), "bedroom", nil)
	if _, _, err := m.Save(saved.ID); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, _, err := m.Save(saved.ID); !errors.Is(err, editor.ErrClosed) {
		t.Errorf("Expected second save to fail with ErrClosed, got %v", err)
	}
	if err := m.Cancel(saved.ID); !errors.Is(err, editor.ErrClosed) {
		t.Errorf("Expected cancel after save to fail with ErrClosed, got %v", err)
	}
	if store.Count() != 1 {
		t.Errorf("Expected exactly one revision, got %d", store.Count())
	}

	cancelled, _ := m.Open(testLayout(), "bedroom", nil)
	if err := m.Cancel(cancelled.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if _, _, err := m.Save(cancelled.ID); !errors.Is(err, editor.ErrClosed) {
		t.Errorf("Expected save after cancel to fail with ErrClosed, got %v", err)
	}
	info, _ := m.Get(cancelled.ID)
	if info.Status != models.SessionStatusCancelled || info.Saved != nil {
		t.Errorf("Unexpected info after cancel: %+v", info)
	}
	if store.Count() != 1 {
		t.Errorf("Cancel must not persist, got %d revisions", store.Count())
	}
}

func TestSave_StoreFailure(t *testing.T) {
	m, store, _ := newTestManager(t, 0)
	store.SaveErr = testutil.ErrMockSave

	info, _ := m.Open(testLayout(), "bedroom", nil)
	saved, rev, err := m.Save(info.ID)
	if !errors.Is(err, testutil.ErrMockSave) {
		t.Fatalf("Expected store error, got %v", err)
	}
	if rev != nil {
		t.Error("Expected no revision on failure")
	}
	if saved.LayoutID != "layout-1" {
		t.Error("Expected saved layout to be returned despite store failure")
	}

	got, _ := m.Get(info.ID)
	if got.Status != models.SessionStatusSaved || got.Saved == nil {
		t.Errorf("Expected session to stay saved, got %+v", got)
	}
}

func TestCapacity(t *testing.T) {
	m, _, clock := newTestManager(t, 2)

	a, _ := m.Open(testLayout(), "bedroom", nil)
	clock.Advance(time.Second)
	b, _ := m.Open(testLayout(), "bedroom", nil)

	if _, err := m.Open(testLayout(), "bedroom", nil); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("Expected ErrTooManySessions, got %v", err)
	}

	// closing one frees a slot through eviction
	if err := m.Cancel(a.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	c, err := m.Open(testLayout(), "bedroom", nil)
	if err != nil {
		t.Fatalf("Expected eviction to make room, got %v", err)
	}

	if _, ok := m.Get(a.ID); ok {
		t.Error("Expected closed session to be evicted")
	}
	if _, ok := m.Get(b.ID); !ok {
		t.Error("Expected open session to survive eviction")
	}
	if _, ok := m.Get(c.ID); !ok {
		t.Error("Expected new session to be hosted")
	}
}

func TestCleanupOldSessions(t *testing.T) {
	m, _, clock := newTestManager(t, 0)

	stale, _ := m.Open(testLayout(), "bedroom", nil)
	clock.Advance(20 * time.Minute)
	fresh, _ := m.Open(testLayout(), "bedroom", nil)
	clock.Advance(15 * time.Minute)

	removed := m.CleanupOldSessions(SessionMaxAge)
	if removed != 1 {
		t.Fatalf("Expected 1 session removed, got %d", removed)
	}
	if _, ok := m.Get(stale.ID); ok {
		t.Error("Expected stale session to be removed")
	}
	if _, ok := m.Get(fresh.ID); !ok {
		t.Error("Expected fresh session to remain")
	}
}

func TestCleanup_TouchKeepsSessionAlive(t *testing.T) {
	m, _, clock := newTestManager(t, 0)

	info, _ := m.Open(testLayout(), "bedroom", nil)
	clock.Advance(40 * time.Minute)
	if !m.Touch(info.ID) {
		t.Fatal("Touch failed")
	}
	clock.Advance(time.Minute)

	if removed := m.CleanupOldSessions(time.Minute / 2); removed != 0 {
		t.Errorf("Expected keep-alive window to protect session, removed %d", removed)
	}
}

func TestDo_SerializesPerSession(t *testing.T) {
	m, _, _ := newTestManager(t, 0)
	info, _ := m.Open(testLayout(), "living_room", nil)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Do(info.ID, func(ed *editor.Editor) error {
				_, err := ed.AddByLabel("Chair")
				return err
			})
		}()
	}
	wg.Wait()

	st, err := m.State(info.ID)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if len(st.Placements) != 2+workers {
		t.Errorf("Expected %d placements, got %d", 2+workers, len(st.Placements))
	}
}
