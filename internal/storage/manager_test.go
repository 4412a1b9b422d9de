// manager_test.go - Tests for layout revision stores
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tany002/bhkinterior.com/internal/models"
)

func sampleRevision(layoutID string, savedAt time.Time) *models.LayoutRevision {
	return &models.LayoutRevision{
		LayoutID:  layoutID,
		SessionID: "sess-1",
		RoomType:  "living_room",
		SavedAt:   savedAt,
		Layout: models.LayoutProposal{
			LayoutID:   layoutID,
			StyleToken: "modern",
			Placements: []models.FurniturePlacement{
				{ItemType: "Sofa", XM: 1, YM: 1, WidthM: 2.2, DepthM: 0.9},
				{ItemType: "Coffee Table", XM: 2, YM: 2, WidthM: 1.2, DepthM: 0.6},
			},
			ShortRationale: "Sofa faces the window (User Customized)",
		},
	}
}

// storeFactories lets every case run against both backends.
func storeFactories() map[string]func(t *testing.T) LayoutStore {
	return map[string]func(t *testing.T) LayoutStore{
		"file": func(t *testing.T) LayoutStore {
			s, err := NewFileStore(t.TempDir())
			if err != nil {
				t.Fatalf("Failed to create FileStore: %v", err)
			}
			return s
		},
		"duckdb": func(t *testing.T) LayoutStore {
			s, err := NewDuckStore(filepath.Join(t.TempDir(), "revisions.duckdb"))
			if err != nil {
				t.Fatalf("Failed to create DuckStore: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		},
		"sqlite": func(t *testing.T) LayoutStore {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "revisions.db"))
			if err != nil {
				t.Fatalf("Failed to create SQLiteStore: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func TestSaveAndGetRevision(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)

			saved, err := store.SaveRevision(sampleRevision("layout-a", time.Time{}))
			if err != nil {
				t.Fatalf("SaveRevision failed: %v", err)
			}
			if saved.ID == "" {
				t.Fatal("Expected an id to be assigned")
			}
			if saved.SavedAt.IsZero() {
				t.Error("Expected SavedAt to be set")
			}
			if saved.PlacementCount != 2 {
				t.Errorf("Expected placement count 2, got %d", saved.PlacementCount)
			}

			got, err := store.GetRevision(saved.ID)
			if err != nil {
				t.Fatalf("GetRevision failed: %v", err)
			}
			if got.LayoutID != "layout-a" || got.RoomType != "living_room" {
				t.Errorf("Unexpected revision metadata: %+v", got)
			}
			if diff := cmp.Diff(saved.Layout, got.Layout); diff != "" {
				t.Errorf("Layout payload not round-tripped (-saved +got):\n%s", diff)
			}
		})
	}
}

func TestGetRevision_NotFound(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			_, err := store.GetRevision("missing")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestListRevisions(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)

			for i := 0; i < 3; i++ {
				if _, err := store.SaveRevision(sampleRevision("layout-a", base.Add(time.Duration(i)*time.Minute))); err != nil {
					t.Fatalf("SaveRevision failed: %v", err)
				}
			}
			if _, err := store.SaveRevision(sampleRevision("layout-b", base)); err != nil {
				t.Fatalf("SaveRevision failed: %v", err)
			}

			list, err := store.ListRevisions("layout-a", 0)
			if err != nil {
				t.Fatalf("ListRevisions failed: %v", err)
			}
			if len(list) != 3 {
				t.Fatalf("Expected 3 revisions, got %d", len(list))
			}
			for i := 1; i < len(list); i++ {
				if list[i].SavedAt.After(list[i-1].SavedAt) {
					t.Error("Expected revisions newest first")
				}
			}

			limited, _ := store.ListRevisions("layout-a", 2)
			if len(limited) != 2 {
				t.Errorf("Expected limit to apply, got %d", len(limited))
			}

			all, _ := store.ListRevisions("", 0)
			if len(all) != 4 {
				t.Errorf("Expected 4 revisions across layouts, got %d", len(all))
			}

			none, _ := store.ListRevisions("layout-z", 0)
			if none == nil || len(none) != 0 {
				t.Errorf("Expected empty non-nil list, got %v", none)
			}
		})
	}
}

func TestSaveRevision_DoesNotAliasInput(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	rev := sampleRevision("layout-a", time.Time{})
	saved, err := store.SaveRevision(rev)
	if err != nil {
		t.Fatalf("SaveRevision failed: %v", err)
	}

	rev.Layout.Placements[0].XM = 7
	got, _ := store.GetRevision(saved.ID)
	if got.Layout.Placements[0].XM != 1 {
		t.Error("Stored revision changed when the caller mutated its input")
	}
}

func TestReadResults_AreCopies(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)

			saved, err := store.SaveRevision(sampleRevision("layout-a", time.Time{}))
			if err != nil {
				t.Fatalf("SaveRevision failed: %v", err)
			}
			saved.Layout.Placements[0].XM = 5

			got, err := store.GetRevision(saved.ID)
			if err != nil {
				t.Fatalf("GetRevision failed: %v", err)
			}
			got.Layout.Placements[0].XM = 6
			got.RoomType = "kitchen"

			list, err := store.ListRevisions("layout-a", 0)
			if err != nil {
				t.Fatalf("ListRevisions failed: %v", err)
			}
			if len(list) != 1 {
				t.Fatalf("Expected 1 revision, got %d", len(list))
			}
			list[0].Layout.Placements[1].WidthM = 9

			again, err := store.GetRevision(saved.ID)
			if err != nil {
				t.Fatalf("GetRevision failed: %v", err)
			}
			want := sampleRevision("layout-a", time.Time{}).Layout
			if diff := cmp.Diff(want, again.Layout); diff != "" {
				t.Errorf("Stored layout changed through a returned value (-want +got):\n%s", diff)
			}
			if again.RoomType != "living_room" {
				t.Errorf("Expected room type living_room, got %q", again.RoomType)
			}
		})
	}
}

func TestFileStore_ScanExisting(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	saved, err := first.SaveRevision(sampleRevision("layout-a", time.Time{}))
	if err != nil {
		t.Fatalf("SaveRevision failed: %v", err)
	}

	// junk next to real revisions must be ignored
	os.WriteFile(filepath.Join(dir, "revision_broken.json"), []byte("{not json"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0644)

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	got, err := second.GetRevision(saved.ID)
	if err != nil {
		t.Fatalf("Expected revision to survive restart: %v", err)
	}
	if got.LayoutID != "layout-a" {
		t.Errorf("Unexpected layout id %q", got.LayoutID)
	}

	list, _ := second.ListRevisions("", 0)
	if len(list) != 1 {
		t.Errorf("Expected 1 revision after scan, got %d", len(list))
	}
}

func TestDuckStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revisions.duckdb")

	first, err := NewDuckStore(path)
	if err != nil {
		t.Fatalf("Failed to create DuckStore: %v", err)
	}
	saved, err := first.SaveRevision(sampleRevision("layout-a", time.Time{}))
	if err != nil {
		t.Fatalf("SaveRevision failed: %v", err)
	}
	first.Close()

	second, err := NewDuckStore(path)
	if err != nil {
		t.Fatalf("Failed to reopen DuckStore: %v", err)
	}
	defer second.Close()

	got, err := second.GetRevision(saved.ID)
	if err != nil {
		t.Fatalf("Expected revision to persist: %v", err)
	}
	if !got.SavedAt.Equal(saved.SavedAt) {
		t.Errorf("SavedAt changed across reopen: %v vs %v", got.SavedAt, saved.SavedAt)
	}
}

func TestOpen_SelectsBackend(t *testing.T) {
	dir := t.TempDir()

	fs, err := Open(BackendFile, dir)
	if err != nil {
		t.Fatalf("Open file backend failed: %v", err)
	}
	if _, ok := fs.(*FileStore); !ok {
		t.Errorf("Expected *FileStore, got %T", fs)
	}

	ds, err := Open(BackendDuckDB, dir)
	if err != nil {
		t.Fatalf("Open duckdb backend failed: %v", err)
	}
	defer ds.Close()
	if _, ok := ds.(*DuckStore); !ok {
		t.Errorf("Expected *DuckStore, got %T", ds)
	}

	ls, err := Open(BackendSQLite, dir)
	if err != nil {
		t.Fatalf("Open sqlite backend failed: %v", err)
	}
	defer ls.Close()
	if _, ok := ls.(*SQLiteStore); !ok {
		t.Errorf("Expected *SQLiteStore, got %T", ls)
	}

	if _, err := Open("postgres", dir); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
