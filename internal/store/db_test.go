package store

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Helper function to create an in-memory store for testing
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	if err := store.CreateSchema(); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() { store.Close() })
	return store
}

func TestNew(t *testing.T) {
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer store.Close()

	if store.db == nil {
		t.Error("Store.db should not be nil")
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.InsertScanRun(&ScanRun{StartedAt: time.Now(), Cause: "startup"}); err != nil {
		t.Fatalf("InsertScanRun() failed: %v", err)
	}
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open() again failed: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.ListScanRuns(10)
	if err != nil {
		t.Fatalf("ListScanRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs after reopen, want 1", len(runs))
	}
}

func TestCreateSchema(t *testing.T) {
	store := newTestStore(t)

	tables := []string{"launch_events", "scan_runs"}
	for _, table := range tables {
		var name string
		err := store.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	indexes := []string{"idx_launch_app", "idx_launch_timestamp", "idx_scan_started"}
	for _, index := range indexes {
		var name string
		err := store.db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", index).Scan(&name)
		if err != nil {
			t.Errorf("Index %s not found: %v", index, err)
		}
	}

	// Idempotent
	if err := store.CreateSchema(); err != nil {
		t.Errorf("second CreateSchema() failed: %v", err)
	}
}

func TestRecentLaunches_NoSchema_ReturnsErrNotInitialized(t *testing.T) {
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	// Do NOT call CreateSchema; simulate an uninitialized database.
	_, err = s.RecentLaunches(10)
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("RecentLaunches() error = %v; want ErrNotInitialized", err)
	}

	_, err = s.InsertScanRun(&ScanRun{StartedAt: time.Now()})
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("InsertScanRun() error = %v; want ErrNotInitialized", err)
	}
}

func TestErrNotInitialized_ErrorMessage(t *testing.T) {
	if !strings.Contains(ErrNotInitialized.Error(), "appdex scan") {
		t.Errorf("ErrNotInitialized message %q should mention 'appdex scan'", ErrNotInitialized.Error())
	}
}

func TestLaunchEvents(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	events := []*LaunchEvent{
		{AppID: "a", AppName: "Editor", Path: "/usr/bin/editor", Success: true, Timestamp: base},
		{AppID: "b", AppName: "Player", Path: "/usr/bin/player", Success: false, Error: "exec format error", Timestamp: base.Add(time.Minute)},
		{AppID: "a", AppName: "Editor", Path: "/usr/bin/editor", Success: true, Timestamp: base.Add(2 * time.Minute)},
	}
	for _, e := range events {
		if err := store.InsertLaunchEvent(e); err != nil {
			t.Fatalf("InsertLaunchEvent() failed: %v", err)
		}
	}

	got, err := store.RecentLaunches(2)
	if err != nil {
		t.Fatalf("RecentLaunches() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].AppID != "a" || !got[0].Timestamp.Equal(base.Add(2*time.Minute)) {
		t.Errorf("newest event = %+v", got[0])
	}
	if got[1].Success || got[1].Error != "exec format error" {
		t.Errorf("failed launch not preserved: %+v", got[1])
	}

	n, err := store.CountLaunches("a")
	if err != nil {
		t.Fatalf("CountLaunches() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("CountLaunches(a) = %d, want 2", n)
	}
	if n, _ := store.CountLaunches("b"); n != 0 {
		t.Errorf("CountLaunches(b) = %d, want 0 (failed launches do not count)", n)
	}

	removed, err := store.PruneLaunchEvents(base.Add(90 * time.Second))
	if err != nil {
		t.Fatalf("PruneLaunchEvents() failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("PruneLaunchEvents() removed %d, want 2", removed)
	}
}

func TestScanRuns(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

	if run, err := store.LastScanRun(); err != nil || run != nil {
		t.Fatalf("LastScanRun() on empty store = %v, %v; want nil, nil", run, err)
	}

	first := &ScanRun{StartedAt: base, Duration: 1500 * time.Millisecond, Cause: "startup", AppCount: 40, CandidateCount: 55, Failures: 1, Error: ""}
	second := &ScanRun{StartedAt: base.Add(time.Hour), Duration: 900 * time.Millisecond, Cause: "forced", AppCount: 41, CandidateCount: 57}

	id1, err := store.InsertScanRun(first)
	if err != nil {
		t.Fatalf("InsertScanRun() failed: %v", err)
	}
	id2, err := store.InsertScanRun(second)
	if err != nil {
		t.Fatalf("InsertScanRun() failed: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("ids not increasing: %d then %d", id1, id2)
	}

	last, err := store.LastScanRun()
	if err != nil {
		t.Fatalf("LastScanRun() failed: %v", err)
	}
	if last.ID != id2 || last.Cause != "forced" || last.AppCount != 41 || last.Duration != 900*time.Millisecond {
		t.Errorf("LastScanRun() = %+v", last)
	}

	runs, err := store.ListScanRuns(10)
	if err != nil {
		t.Fatalf("ListScanRuns() failed: %v", err)
	}
	if len(runs) != 2 || runs[1].Failures != 1 || !runs[1].StartedAt.Equal(base) {
		t.Errorf("ListScanRuns() = %+v", runs)
	}
}
