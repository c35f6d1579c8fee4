// Package store persists per-user metadata (recent items, last-accessed
// times, tags, and session settings) in a SQLite database.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/benju66/fileexplorer/internal/debug"
)

// maxRecents bounds the recent-items list.
const maxRecents = 50

type DB struct {
	conn *sql.DB
}

// Open opens (creating if needed) the metadata database at dbPath.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL;", "PRAGMA synchronous=NORMAL;"} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, err
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS recents (path TEXT PRIMARY KEY, accessed_at DATETIME NOT NULL);
		CREATE TABLE IF NOT EXISTS last_accessed (path TEXT PRIMARY KEY, accessed_at DATETIME NOT NULL);
		CREATE TABLE IF NOT EXISTS tags (path TEXT NOT NULL, tag TEXT NOT NULL, PRIMARY KEY (path, tag));
		CREATE TABLE IF NOT EXISTS settings (key TEXT PRIMARY KEY, value TEXT NOT NULL);
	`
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{conn: conn}, nil
}

// AddRecent records a path as recently opened, moving it to the front when
// it is already present and pruning the list past its cap.
func (d *DB) AddRecent(path string) error {
	now := time.Now().UTC()
	if _, err := d.conn.Exec(
		"INSERT INTO recents (path, accessed_at) VALUES (?, ?) ON CONFLICT(path) DO UPDATE SET accessed_at = excluded.accessed_at",
		path, now); err != nil {
		return err
	}
	_, err := d.conn.Exec(
		"DELETE FROM recents WHERE path NOT IN (SELECT path FROM recents ORDER BY accessed_at DESC LIMIT ?)",
		maxRecents)
	if err == nil {
		debug.Log(debug.STORE, "Recent: %s", path)
	}
	return err
}

// Recents returns up to limit recently opened paths, most recent first.
// limit <= 0 returns the whole list.
func (d *DB) Recents(limit int) ([]string, error) {
	if limit <= 0 || limit > maxRecents {
		limit = maxRecents
	}
	rows, err := d.conn.Query("SELECT path FROM recents ORDER BY accessed_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if rows.Scan(&p) == nil {
			paths = append(paths, p)
		}
	}
	return paths, rows.Err()
}

// Touch records the current time as the last access of path.
func (d *DB) Touch(path string) error {
	_, err := d.conn.Exec(
		"INSERT INTO last_accessed (path, accessed_at) VALUES (?, ?) ON CONFLICT(path) DO UPDATE SET accessed_at = excluded.accessed_at",
		path, time.Now().UTC())
	return err
}

// LastAccessed returns the recorded last access time of path. The second
// return value is false when the path has never been touched.
func (d *DB) LastAccessed(path string) (time.Time, bool) {
	var t time.Time
	err := d.conn.QueryRow("SELECT accessed_at FROM last_accessed WHERE path = ?", path).Scan(&t)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SetTag attaches a tag to a path. Adding an existing tag is a no-op.
func (d *DB) SetTag(path, tag string) error {
	_, err := d.conn.Exec("INSERT OR IGNORE INTO tags (path, tag) VALUES (?, ?)", path, tag)
	return err
}

// RemoveTag detaches a tag from a path.
func (d *DB) RemoveTag(path, tag string) error {
	_, err := d.conn.Exec("DELETE FROM tags WHERE path = ? AND tag = ?", path, tag)
	return err
}

// Tags returns the tags attached to a path, sorted.
func (d *DB) Tags(path string) ([]string, error) {
	rows, err := d.conn.Query("SELECT tag FROM tags WHERE path = ? ORDER BY tag", path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var t string
		if rows.Scan(&t) == nil {
			tags = append(tags, t)
		}
	}
	return tags, rows.Err()
}

// SaveSetting upserts a session key-value setting.
func (d *DB) SaveSetting(key, value string) error {
	_, err := d.conn.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	return err
}

// Setting returns the stored value for key, or "" when absent.
func (d *DB) Setting(key string) string {
	var v string
	if err := d.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v); err != nil {
		return ""
	}
	return v
}

func (d *DB) Close() error {
	if d.conn != nil {
		return d.conn.Close()
	}
	return nil
}
