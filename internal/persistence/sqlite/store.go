package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/biraysutcuoglu/KeyValueStore/internal/cache"
	"github.com/biraysutcuoglu/KeyValueStore/internal/logging"
)

// Store is the SQLite-backed durable tier. One row per key; an upsert
// replaces the whole row. It satisfies cache.Store.
type Store struct {
	db *sql.DB
}

var _ cache.Store = (*Store)(nil)

// NewStore wraps an open connection from NewConnection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get reads the value for key. A missing key is found=false, not an error.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `SELECT value FROM entries WHERE key = ?`
	var value []byte
	err := s.db.QueryRowContext(ctx, q, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select entry: %w", err)
	}
	return value, true, nil
}

// Put inserts or replaces the entry for key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("key", key).Int("size", len(value)).Msg("writing entry")

	if value == nil {
		// Bind an empty blob, not NULL; the column is NOT NULL.
		value = []byte{}
	}

	const q = `INSERT OR REPLACE INTO entries (key, value, updated_at) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, key, value, time.Now().Unix()); err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}
	return nil
}

// Remove deletes the entry for key and reports whether a row was deleted.
func (s *Store) Remove(ctx context.Context, key string) (bool, error) {
	log := logging.FromContext(ctx)
	log.Debug().Str("key", key).Msg("deleting entry")

	const q = `DELETE FROM entries WHERE key = ?`
	res, err := s.db.ExecContext(ctx, q, key)
	if err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// StoreStats describes the durable tier as a whole.
type StoreStats struct {
	Entries   int64 `json:"entries"`
	SizeBytes int64 `json:"size_bytes"`
}

// Stats returns row count and total key+value bytes. Keys are measured as
// UTF-8 bytes, matching how the cache accounts for them.
func (s *Store) Stats(ctx context.Context) (StoreStats, error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(value)), 0) FROM entries`
	var st StoreStats
	if err := s.db.QueryRowContext(ctx, q).Scan(&st.Entries, &st.SizeBytes); err != nil {
		return StoreStats{}, fmt.Errorf("stats query: %w", err)
	}
	return st, nil
}

// StoredEntry is one row of the durable tier as listed by Entries.
type StoredEntry struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size_bytes"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entries lists rows ordered by key. A negative limit lists everything.
func (s *Store) Entries(ctx context.Context, limit int64) ([]StoredEntry, error) {
	const q = `SELECT key, LENGTH(CAST(key AS BLOB)) + LENGTH(value), updated_at FROM entries ORDER BY key LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	items, scanErr := scanEntryRows(rows)
	closeErr := rows.Close()
	if scanErr != nil {
		return nil, scanErr
	}
	if closeErr != nil {
		return nil, closeErr
	}
	return items, nil
}

func scanEntryRows(rows *sql.Rows) ([]StoredEntry, error) {
	var items []StoredEntry
	var scanErr error
	for rows.Next() {
		var (
			e  StoredEntry
			ts int64
		)
		if err := rows.Scan(&e.Key, &e.Size, &ts); err != nil {
			scanErr = err
			break
		}
		e.UpdatedAt = time.Unix(ts, 0)
		items = append(items, e)
	}
	if scanErr != nil {
		return nil, scanErr
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
