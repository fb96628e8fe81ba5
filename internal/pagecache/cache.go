// Package pagecache keeps raw OpenAlex result pages in SQLite so repeated
// comparisons of the same subjects do not refetch them.
package pagecache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matsen/xcite/internal/work"
)

// Cache wraps a SQLite database of fetched pages.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Stats summarises the cache contents.
type Stats struct {
	Pages   int64  `json:"pages"`
	Expired int64  `json:"expired"`
	Bytes   int64  `json:"bytes"`
	Path    string `json:"path,omitempty"`
}

// Open opens or creates the cache at path. Pages older than ttl are treated
// as missing; a ttl of zero or less keeps pages forever.
func Open(path string, ttl time.Duration) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening page cache: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS pages (
			author_id TEXT NOT NULL,
			cursor TEXT NOT NULL,
			body TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (author_id, cursor)
		);

		CREATE INDEX IF NOT EXISTS idx_pages_fetched_at ON pages(fetched_at);
	`
	_, err := db.Exec(schema)
	return err
}

// freshClause matches rows of table p whose chain is fresh. A walk starts at
// the first page, so a later page is only usable while that author's first
// page is fresh and was fetched no later than it. Once the first page expires
// or is refetched, every cursor reached from the old copy goes with it.
const freshClause = `EXISTS (
	SELECT 1 FROM pages h
	WHERE h.author_id = p.author_id AND h.cursor = ?
		AND h.fetched_at >= ? AND p.fetched_at >= h.fetched_at
)`

// cutoff returns the oldest fetched_at still considered fresh.
func (c *Cache) cutoff() int64 {
	if c.ttl <= 0 {
		return 0
	}
	return c.now().Add(-c.ttl).Unix()
}

// Get returns the fresh page stored for (id, cursor), if any. Freshness is
// judged per author chain, see freshClause.
func (c *Cache) Get(id work.AuthorID, cursor string) (*work.Page, bool, error) {
	var body string
	err := c.db.QueryRow(
		`SELECT p.body FROM pages p WHERE p.author_id = ? AND p.cursor = ? AND `+freshClause,
		id.ShortID(), cursor, work.FirstCursor, c.cutoff(),
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying page: %w", err)
	}

	var page work.Page
	if err := json.Unmarshal([]byte(body), &page); err != nil {
		return nil, false, fmt.Errorf("decoding cached page: %w", err)
	}
	page.Cached = true
	return &page, true, nil
}

// Put stores page under (id, cursor), replacing any older copy.
func (c *Cache) Put(id work.AuthorID, cursor string, page *work.Page) error {
	body, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("encoding page: %w", err)
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO pages (author_id, cursor, body, fetched_at) VALUES (?, ?, ?, ?)`,
		id.ShortID(), cursor, string(body), c.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("storing page: %w", err)
	}
	return nil
}

// Purge deletes pages whose chain has expired and returns how many were
// removed.
func (c *Cache) Purge() (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	res, err := c.db.Exec(
		`DELETE FROM pages WHERE rowid IN (SELECT p.rowid FROM pages p WHERE NOT `+freshClause+`)`,
		work.FirstCursor, c.cutoff(),
	)
	if err != nil {
		return 0, fmt.Errorf("purging pages: %w", err)
	}
	return res.RowsAffected()
}

// Clear deletes every page and returns how many were removed.
func (c *Cache) Clear() (int64, error) {
	res, err := c.db.Exec(`DELETE FROM pages`)
	if err != nil {
		return 0, fmt.Errorf("clearing pages: %w", err)
	}
	return res.RowsAffected()
}

// Stats counts stored and expired pages.
func (c *Cache) Stats() (Stats, error) {
	var s Stats
	err := c.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(NOT `+freshClause+`), 0), COALESCE(SUM(LENGTH(p.body)), 0) FROM pages p`,
		work.FirstCursor, c.cutoff(),
	).Scan(&s.Pages, &s.Expired, &s.Bytes)
	if err != nil {
		return Stats{}, fmt.Errorf("counting pages: %w", err)
	}
	return s, nil
}
