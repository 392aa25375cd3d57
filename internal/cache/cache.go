// Package cache stores per-page source results so repeated searches for the
// same keyword skip the network until the entry expires.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/IshaanNene/keyscope/internal/observability"
	"github.com/IshaanNene/keyscope/internal/types"
)

// Cache is a keyed store of page results.
type Cache interface {
	// Get returns the cached records for a page, and whether a fresh entry existed.
	Get(ctx context.Context, keyword, source string, page int) ([]types.Record, bool, error)

	// Put stores the records for a page, replacing any previous entry.
	Put(ctx context.Context, keyword, source string, page int, records []types.Record) error

	// Purge removes expired entries and returns how many were deleted.
	Purge(ctx context.Context) (int64, error)

	Close() error
}

// ensure SQLite implements Cache
var _ Cache = (*SQLite)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS page_cache (
	keyword    TEXT NOT NULL,
	source     TEXT NOT NULL,
	page       INTEGER NOT NULL,
	records    TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (keyword, source, page)
);
`

// SQLite is a Cache backed by an embedded sqlite database.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// Open opens (creating if needed) the cache database at path. Use ":memory:"
// for a private in-memory cache.
func Open(path string, ttl time.Duration) (*SQLite, error) {
	dsn := path
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create cache dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &SQLite{db: db, ttl: ttl, Now: time.Now}, nil
}

func normalize(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

func (c *SQLite) cutoff() int64 {
	return c.Now().Add(-c.ttl).Unix()
}

// Get implements Cache. Expired entries are treated as misses.
func (c *SQLite) Get(ctx context.Context, keyword, source string, page int) ([]types.Record, bool, error) {
	var payload string
	var created int64
	err := c.db.QueryRowContext(ctx,
		`SELECT records, created_at FROM page_cache WHERE keyword = ? AND source = ? AND page = ?`,
		normalize(keyword), source, page,
	).Scan(&payload, &created)
	if errors.Is(err, sql.ErrNoRows) {
		observability.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &types.StorageError{Backend: "sqlite", Err: err}
	}
	if c.ttl > 0 && created < c.cutoff() {
		observability.CacheLookups.WithLabelValues("expired").Inc()
		return nil, false, nil
	}

	var records []types.Record
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, false, &types.StorageError{Backend: "sqlite", Err: fmt.Errorf("decode cached records: %w", err)}
	}
	observability.CacheLookups.WithLabelValues("hit").Inc()
	return records, true, nil
}

// Put implements Cache.
func (c *SQLite) Put(ctx context.Context, keyword, source string, page int, records []types.Record) error {
	if records == nil {
		records = []types.Record{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
	INSERT INTO page_cache (keyword, source, page, records, created_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (keyword, source, page) DO UPDATE SET records = excluded.records, created_at = excluded.created_at
	`, normalize(keyword), source, page, string(payload), c.Now().Unix())
	if err != nil {
		return &types.StorageError{Backend: "sqlite", Err: err}
	}
	return nil
}

// Purge implements Cache.
func (c *SQLite) Purge(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	res, err := c.db.ExecContext(ctx, `DELETE FROM page_cache WHERE created_at < ?`, c.cutoff())
	if err != nil {
		return 0, &types.StorageError{Backend: "sqlite", Err: err}
	}
	return res.RowsAffected()
}

// Len returns the number of stored entries, expired or not.
func (c *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM page_cache`).Scan(&n); err != nil {
		return 0, &types.StorageError{Backend: "sqlite", Err: err}
	}
	return n, nil
}

// Close closes the database.
func (c *SQLite) Close() error {
	return c.db.Close()
}
