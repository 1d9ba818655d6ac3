package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(StoreConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "audit.db"),
	})
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreInsertAndRecent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	entries := []Entry{
		{ID: "a", RequestID: "r1", Method: "POST", Path: "/bridge/evaluate", Status: 200, Duration: 12 * time.Millisecond, CreatedAt: time.Now().Add(-2 * time.Minute)},
		{ID: "b", RequestID: "r2", Method: "GET", Path: "/bridge/metrics", Status: 502, ErrorKind: "upstream_error", Duration: 3 * time.Millisecond, CreatedAt: time.Now().Add(-time.Minute)},
		{ID: "c", RequestID: "r3", Method: "POST", Path: "/bridge/evaluate", Status: 504, ErrorKind: "timeout", Duration: 30 * time.Second, CreatedAt: time.Now()},
	}
	for _, e := range entries {
		if err := store.Insert(ctx, e); err != nil {
			t.Fatalf("Insert(%s) error = %v", e.ID, err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent() returned %d entries, want 2", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "b" {
		t.Errorf("Recent() order = %s, %s; want c, b", got[0].ID, got[1].ID)
	}
	if got[0].ErrorKind != "timeout" {
		t.Errorf("ErrorKind = %q, want timeout", got[0].ErrorKind)
	}
	if got[0].Duration != 30*time.Second {
		t.Errorf("Duration = %v, want 30s", got[0].Duration)
	}
}

func TestStorePurge(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	old := Entry{ID: "old", RequestID: "r1", Method: "GET", Path: "/bridge/metrics", Status: 200, CreatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := Entry{ID: "fresh", RequestID: "r2", Method: "GET", Path: "/bridge/metrics", Status: 200, CreatedAt: time.Now()}
	for _, e := range []Entry{old, fresh} {
		if err := store.Insert(ctx, e); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	removed, err := store.Purge(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Purge() removed %d, want 1", removed)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	_, err := OpenStore(StoreConfig{Driver: "postgres", Path: "ignored"})
	if err == nil {
		t.Fatal("OpenStore() should reject unknown drivers")
	}
}
