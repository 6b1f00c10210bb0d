// Package store handles SQLite persistence of keystroke events.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/ree-see/lurk/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for keystroke event data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	// journal_mode returns a row, so it cannot go through Exec.
	var mode string
	if err := s.db.QueryRow(`PRAGMA journal_mode = WAL`).Scan(&mode); err != nil {
		return err
	}
	stmts := []string{
		`PRAGMA synchronous = NORMAL;`,
		`CREATE TABLE IF NOT EXISTS key_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			key_code INTEGER NOT NULL,
			kind TEXT NOT NULL,
			modifiers TEXT,
			application TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_key_events_timestamp ON key_events(timestamp);`,
		`CREATE INDEX IF NOT EXISTS idx_key_events_key_code ON key_events(key_code);`,
		`CREATE INDEX IF NOT EXISTS idx_key_events_timestamp_key ON key_events(timestamp, key_code);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertEvent stores a single keystroke event.
func (s *Store) InsertEvent(ctx context.Context, ev model.KeyEvent) error {
	modifiers, err := json.Marshal(ev.Modifiers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO key_events (timestamp, key_code, kind, modifiers, application)
		 VALUES (?, ?, ?, ?, ?)`,
		ev.Timestamp, ev.KeyCode, string(ev.Kind), string(modifiers), ev.Application)
	return err
}

// InsertEventsBatch stores events in one transaction with a prepared statement.
func (s *Store) InsertEventsBatch(ctx context.Context, events []model.KeyEvent) (err error) {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO key_events (timestamp, key_code, kind, modifiers, application)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	for _, ev := range events {
		modifiers, merr := json.Marshal(ev.Modifiers)
		if merr != nil {
			err = merr
			return err
		}
		if _, err = stmt.ExecContext(ctx, ev.Timestamp, ev.KeyCode, string(ev.Kind), string(modifiers), ev.Application); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListEvents returns all events ordered by timestamp, ties by insert order.
func (s *Store) ListEvents(ctx context.Context) ([]model.KeyEvent, error) {
	return s.queryEvents(ctx,
		`SELECT timestamp, key_code, kind, modifiers, application
		 FROM key_events
		 ORDER BY timestamp ASC, id ASC`)
}

// ListEventsInRange returns events with start <= timestamp <= end.
func (s *Store) ListEventsInRange(ctx context.Context, start, end int64) ([]model.KeyEvent, error) {
	return s.queryEvents(ctx,
		`SELECT timestamp, key_code, kind, modifiers, application
		 FROM key_events
		 WHERE timestamp >= ? AND timestamp <= ?
		 ORDER BY timestamp ASC, id ASC`, start, end)
}

// ListEventsSince returns events from the last N days.
func (s *Store) ListEventsSince(ctx context.Context, days int) ([]model.KeyEvent, error) {
	now := time.Now().UnixMilli()
	start := now - int64(days)*24*60*60*1000
	return s.ListEventsInRange(ctx, start, now)
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]model.KeyEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var events []model.KeyEvent
	for rows.Next() {
		var ev model.KeyEvent
		var kind, modifiers string
		if err := rows.Scan(&ev.Timestamp, &ev.KeyCode, &kind, &modifiers, &ev.Application); err != nil {
			return nil, err
		}
		ev.Kind = model.EventKind(kind)
		if modifiers != "" {
			if err := json.Unmarshal([]byte(modifiers), &ev.Modifiers); err != nil {
				// Unreadable modifier blobs degrade to none.
				ev.Modifiers = nil
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// TotalCount returns the number of events with timestamp >= sinceTs; pass 0
// to count everything.
func (s *Store) TotalCount(ctx context.Context, sinceTs int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM key_events WHERE timestamp >= ?`, sinceTs).Scan(&count)
	return count, err
}

// PressCount returns the number of press events with timestamp >= sinceTs.
func (s *Store) PressCount(ctx context.Context, sinceTs int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM key_events WHERE kind = ? AND timestamp >= ?`,
		string(model.KindPress), sinceTs).Scan(&count)
	return count, err
}

// DateRange returns the min and max timestamps at or after sinceTs; ok is
// false when nothing matches.
func (s *Store) DateRange(ctx context.Context, sinceTs int64) (start, end int64, ok bool, err error) {
	var minTs, maxTs sql.NullInt64
	err = s.db.QueryRowContext(ctx,
		`SELECT MIN(timestamp), MAX(timestamp) FROM key_events WHERE timestamp >= ?`, sinceTs).Scan(&minTs, &maxTs)
	if err != nil {
		return 0, 0, false, err
	}
	if !minTs.Valid || !maxTs.Valid {
		return 0, 0, false, nil
	}
	return minTs.Int64, maxTs.Int64, true, nil
}

// KeyTotal is a storage-level per-key press count.
type KeyTotal struct {
	KeyCode uint32
	Count   int64
}

// AppTotal is a storage-level per-application press count.
type AppTotal struct {
	Application string
	Count       int64
}

// TopKeys returns the most pressed keys at or after sinceTs.
func (s *Store) TopKeys(ctx context.Context, sinceTs int64, limit int) ([]KeyTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key_code, COUNT(*) AS count
		 FROM key_events
		 WHERE kind = ? AND timestamp >= ?
		 GROUP BY key_code
		 ORDER BY count DESC, key_code ASC
		 LIMIT ?`, string(model.KindPress), sinceTs, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []KeyTotal
	for rows.Next() {
		var kt KeyTotal
		if err := rows.Scan(&kt.KeyCode, &kt.Count); err != nil {
			return nil, err
		}
		result = append(result, kt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// TopApplications returns the applications with the most presses at or after
// sinceTs.
func (s *Store) TopApplications(ctx context.Context, sinceTs int64, limit int) ([]AppTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT application, COUNT(*) AS count
		 FROM key_events
		 WHERE kind = ? AND timestamp >= ?
		 GROUP BY application
		 ORDER BY count DESC, application ASC
		 LIMIT ?`, string(model.KindPress), sinceTs, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []AppTotal
	for rows.Next() {
		var at AppTotal
		if err := rows.Scan(&at.Application, &at.Count); err != nil {
			return nil, err
		}
		result = append(result, at)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteBefore removes events older than the given timestamp and returns the
// number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, ts int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM key_events WHERE timestamp < ?`, ts)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
