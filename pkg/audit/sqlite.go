package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// Both drivers stay linked so deployments can pick either: "sqlite" is
	// the pure Go driver, "sqlite3" needs cgo but is faster under load.
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// StoreConfig contains settings for the SQLite audit store.
type StoreConfig struct {
	// Driver is the database/sql driver name: "sqlite" or "sqlite3".
	Driver string

	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// Store persists audit entries in SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenStore opens (creating if needed) the audit database and applies the
// schema. WAL mode is always enabled; concurrent readers must not block the
// recorder's writer.
func OpenStore(cfg StoreConfig) (*Store, error) {
	if cfg.Driver != "sqlite" && cfg.Driver != "sqlite3" {
		return nil, fmt.Errorf("audit: unknown sqlite driver %q", cfg.Driver)
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open(cfg.Driver, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", cfg.Path, err)
	}

	s := &Store{
		db:     db,
		logger: slog.Default().With("component", "audit.store"),
	}

	if err := s.initialize(cfg); err != nil {
		_ = db.Close()
		return nil, err
	}

	s.logger.Info("audit store opened", "driver", cfg.Driver, "path", cfg.Path)
	return s, nil
}

func (s *Store) initialize(cfg StoreConfig) error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("audit: enable wal: %w", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", cfg.BusyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("audit: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("audit: apply schema: %w", err)
	}
	return nil
}

// Insert writes a single entry.
func (s *Store) Insert(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bridge_calls (id, request_id, method, path, status, error_kind, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.RequestID, e.Method, e.Path, e.Status, e.ErrorKind,
		e.Duration.Milliseconds(), e.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("audit: insert %s: %w", e.ID, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, request_id, method, path, status, error_kind, duration_ms, created_at
		 FROM bridge_calls ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: query recent: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMS int64
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Method, &e.Path, &e.Status,
			&e.ErrorKind, &durationMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit: scan row: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Purge deletes entries created before the cutoff and returns the count
// removed.
func (s *Store) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM bridge_calls WHERE created_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("audit: purge: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bridge_calls`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("audit: count: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
