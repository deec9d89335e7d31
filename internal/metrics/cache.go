// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ideation-engine/pkg/types"
)

// SQLiteCache persists lookup outcomes in a SQLite database so repeated
// SOTA runs do not re-query the metrics service.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenCache opens or creates the cache database at path. Entries older
// than ttl are ignored; ttl <= 0 keeps entries forever.
func OpenCache(path string, ttl time.Duration) (*SQLiteCache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening metrics cache: %w", err)
	}
	c := &SQLiteCache{db: db, ttl: ttl, now: time.Now}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS metrics_cache (
		id TEXT PRIMARY KEY,
		found INTEGER NOT NULL,
		payload TEXT,
		fetched_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return c, nil
}

// Close releases the database connection.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Get returns the cached outcome for id. ok is false when there is no
// fresh entry; ok with nil metrics is a cached miss.
func (c *SQLiteCache) Get(ctx context.Context, id string) (*types.CitationMetrics, bool, error) {
	var (
		found     bool
		payload   sql.NullString
		fetchedAt string
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT found, payload, fetched_at FROM metrics_cache WHERE id = ?`, id,
	).Scan(&found, &payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading metrics cache: %w", err)
	}

	if c.ttl > 0 {
		t, err := time.Parse(time.RFC3339, fetchedAt)
		if err != nil || c.now().Sub(t) > c.ttl {
			return nil, false, nil
		}
	}
	if !found {
		return nil, true, nil
	}
	var m types.CitationMetrics
	if err := json.Unmarshal([]byte(payload.String), &m); err != nil {
		return nil, false, fmt.Errorf("decoding cached metrics for %s: %w", id, err)
	}
	return &m, true, nil
}

// Put records the outcome for id, replacing any previous entry.
func (c *SQLiteCache) Put(ctx context.Context, id string, m *types.CitationMetrics) error {
	var payload sql.NullString
	if m != nil {
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encoding metrics: %w", err)
		}
		payload = sql.NullString{String: string(b), Valid: true}
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO metrics_cache (id, found, payload, fetched_at) VALUES (?, ?, ?, ?)`,
		id, m != nil, payload, c.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing metrics cache: %w", err)
	}
	return nil
}
