package audit

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func TestRecorderWritesAsynchronously(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	store, err := OpenStore(StoreConfig{Driver: "sqlite", Path: path})
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}

	rec := NewRecorder(store, RecorderConfig{AsyncBuffer: 8})
	rec.Record(Entry{RequestID: "r1", Method: "POST", Path: "/bridge/evaluate", Status: 200})
	rec.Record(Entry{RequestID: "r2", Method: "GET", Path: "/bridge/metrics", Status: 503, ErrorKind: "service_unavailable"})

	// Close drains the buffer before returning.
	if err := rec.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	store2, err := OpenStore(StoreConfig{Driver: "sqlite", Path: path})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer store2.Close()

	entries, err := store2.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.ID == "" {
			t.Error("recorder should assign ids to entries without one")
		}
		if e.CreatedAt.IsZero() {
			t.Error("recorder should stamp CreatedAt")
		}
	}
}

func TestRecorderDropsWhenBufferFull(t *testing.T) {
	store, err := OpenStore(StoreConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "audit.db"),
	})
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer store.Close()

	rec := &Recorder{
		store:   store,
		cfg:     RecorderConfig{AsyncBuffer: 1, WriteTimeout: time.Second},
		entries: make(chan Entry, 1),
		logger:  slog.Default(),
	}
	// No worker running: the buffer fills after one entry.
	rec.Record(Entry{RequestID: "kept"})
	rec.Record(Entry{RequestID: "dropped"})

	if rec.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", rec.Dropped())
	}
}
