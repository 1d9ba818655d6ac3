package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// RecorderConfig contains settings for the asynchronous recorder.
type RecorderConfig struct {
	// AsyncBuffer is the size of the write channel. A full buffer drops
	// entries instead of blocking.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout bounds a single storage write.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// Recorder enqueues entries for background persistence.
type Recorder struct {
	store   *Store
	cfg     RecorderConfig
	entries chan Entry
	dropped atomic.Int64
	wg      sync.WaitGroup
	once    sync.Once
	logger  *slog.Logger
}

// NewRecorder starts a recorder draining into the given store.
func NewRecorder(store *Store, cfg RecorderConfig) *Recorder {
	if cfg.AsyncBuffer <= 0 {
		cfg.AsyncBuffer = 1000
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}

	r := &Recorder{
		store:   store,
		cfg:     cfg,
		entries: make(chan Entry, cfg.AsyncBuffer),
		logger:  slog.Default().With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("audit recorder started", "async_buffer", cfg.AsyncBuffer)
	return r
}

// Record enqueues an entry. It never blocks: when the buffer is full the
// entry is dropped and the drop counter incremented. Missing ID and
// CreatedAt fields are filled in.
func (r *Recorder) Record(e Entry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	select {
	case r.entries <- e:
	default:
		n := r.dropped.Add(1)
		if n == 1 || n%100 == 0 {
			r.logger.Warn("audit buffer full, dropping entries", "dropped_total", n)
		}
	}
}

// Dropped returns the number of entries discarded because the buffer was
// full.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

func (r *Recorder) worker() {
	defer r.wg.Done()
	for e := range r.entries {
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.WriteTimeout)
		if err := r.store.Insert(ctx, e); err != nil {
			r.logger.Error("audit write failed", "entry_id", e.ID, "error", err)
		}
		cancel()
	}
}

// Close drains buffered entries, stops the worker, and closes the store.
// Safe to call more than once.
func (r *Recorder) Close() error {
	r.once.Do(func() {
		close(r.entries)
		r.wg.Wait()
	})
	return r.store.Close()
}
