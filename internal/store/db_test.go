package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "metadata.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecentsOrderAndDedup(t *testing.T) {
	db := newTestDB(t)

	for _, p := range []string{"/a", "/b", "/c"} {
		if err := db.AddRecent(p); err != nil {
			t.Fatalf("AddRecent(%s): %v", p, err)
		}
		time.Sleep(2 * time.Millisecond) // Distinct timestamps
	}
	// Re-opening /a moves it back to the front
	if err := db.AddRecent("/a"); err != nil {
		t.Fatal(err)
	}

	recents, err := db.Recents(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recents) != 3 {
		t.Fatalf("expected 3 recents, got %d: %v", len(recents), recents)
	}
	if recents[0] != "/a" {
		t.Errorf("re-added path should be most recent, got %q", recents[0])
	}
}

func TestRecentsPruning(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < maxRecents+20; i++ {
		if err := db.AddRecent(fmt.Sprintf("/path/%03d", i)); err != nil {
			t.Fatal(err)
		}
	}

	recents, err := db.Recents(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recents) > maxRecents {
		t.Errorf("recents should be pruned to %d, got %d", maxRecents, len(recents))
	}
}

func TestRecentsLimit(t *testing.T) {
	db := newTestDB(t)
	for i := 0; i < 5; i++ {
		db.AddRecent(fmt.Sprintf("/p%d", i))
	}

	recents, err := db.Recents(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recents) != 2 {
		t.Errorf("expected 2 recents, got %d", len(recents))
	}
}

func TestLastAccessed(t *testing.T) {
	db := newTestDB(t)

	if _, ok := db.LastAccessed("/never"); ok {
		t.Error("untouched path should report no access time")
	}

	before := time.Now().UTC().Add(-time.Second)
	if err := db.Touch("/docs"); err != nil {
		t.Fatal(err)
	}
	got, ok := db.LastAccessed("/docs")
	if !ok {
		t.Fatal("touched path should have an access time")
	}
	if got.Before(before) {
		t.Errorf("access time too old: %v", got)
	}
}

func TestTags(t *testing.T) {
	db := newTestDB(t)

	if err := db.SetTag("/report.pdf", "work"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetTag("/report.pdf", "urgent"); err != nil {
		t.Fatal(err)
	}
	// Duplicate is a silent no-op
	if err := db.SetTag("/report.pdf", "work"); err != nil {
		t.Fatal(err)
	}

	tags, err := db.Tags("/report.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 2 || tags[0] != "urgent" || tags[1] != "work" {
		t.Errorf("expected sorted [urgent work], got %v", tags)
	}

	if err := db.RemoveTag("/report.pdf", "urgent"); err != nil {
		t.Fatal(err)
	}
	tags, _ = db.Tags("/report.pdf")
	if len(tags) != 1 || tags[0] != "work" {
		t.Errorf("expected [work], got %v", tags)
	}
}

func TestSettings(t *testing.T) {
	db := newTestDB(t)

	if got := db.Setting("last_path"); got != "" {
		t.Errorf("unset setting should be empty, got %q", got)
	}
	if err := db.SaveSetting("last_path", "/home/user"); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveSetting("last_path", "/home/user/docs"); err != nil {
		t.Fatal(err)
	}
	if got := db.Setting("last_path"); got != "/home/user/docs" {
		t.Errorf("expected overwritten value, got %q", got)
	}
}

func TestPersistenceAcrossOpens(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "metadata.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	db.AddRecent("/kept")
	db.SaveSetting("k", "v")
	db.Close()

	db2, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db2.Close()

	recents, _ := db2.Recents(0)
	if len(recents) != 1 || recents[0] != "/kept" {
		t.Errorf("recents should persist, got %v", recents)
	}
	if got := db2.Setting("k"); got != "v" {
		t.Errorf("settings should persist, got %q", got)
	}
}
