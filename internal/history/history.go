// Package history is a local SQLite cache of every message the client has
// admitted. On startup the cache is replayed into the store before the
// supervisor's /history fetch returns, so earlier conversations render even
// when the supervisor trimmed its own log. Dedup keys make the replay safe to
// interleave with live traffic.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wilbur182/trestle/internal/bridge"
	"github.com/wilbur182/trestle/internal/state"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	dedup_key INTEGER NOT NULL UNIQUE,
	payload TEXT NOT NULL,
	stored_at TEXT NOT NULL
);
`

// Cache wraps the database handle. Every method returns an error the caller
// is expected to log and move past: a broken cache disables itself, never the
// UI.
type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the cache at path, creating parent directories.
func Open(path string) (*Cache, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("history mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("history open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Append stores one message, keyed by its dedup identity. Re-appending a
// message the cache already holds is a no-op.
func (c *Cache) Append(m bridge.Message) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("history encode: %w", err)
	}
	_, err = c.db.Exec(
		"INSERT OR IGNORE INTO messages (dedup_key, payload, stored_at) VALUES (?, ?, ?)",
		int64(state.Key(m)), string(payload), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("history append: %w", err)
	}
	return nil
}

// Recent returns the newest limit messages in oldest-first order. Rows that
// no longer decode are skipped.
func (c *Cache) Recent(limit int) ([]bridge.Message, error) {
	rows, err := c.db.Query(
		"SELECT payload FROM messages ORDER BY seq DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history query: %w", err)
	}

	var newestFirst []bridge.Message
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("history scan: %w", err)
		}
		var m bridge.Message
		if err := json.Unmarshal([]byte(payload), &m); err != nil {
			continue
		}
		newestFirst = append(newestFirst, m)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history iteration: %w", err)
	}

	out := make([]bridge.Message, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		out = append(out, newestFirst[i])
	}
	return out, nil
}

// Trim keeps only the newest keep rows.
func (c *Cache) Trim(keep int) error {
	_, err := c.db.Exec(
		"DELETE FROM messages WHERE seq NOT IN (SELECT seq FROM messages ORDER BY seq DESC LIMIT ?)",
		keep,
	)
	if err != nil {
		return fmt.Errorf("history trim: %w", err)
	}
	return nil
}

// Clear empties the cache. Called after the supervisor's database is reset so
// the replay cannot resurrect truncated conversations.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM messages"); err != nil {
		return fmt.Errorf("history clear: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
