package store

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Observer is notified after a slot write has been committed.
type Observer func(name, value string)

// Cache is a per-login key/value slot store backed by SQLite.
// It mirrors what the web client keeps in browser storage: named
// slots holding opaque JSON payloads.
type Cache struct {
	db *sql.DB

	mu        sync.Mutex
	observers []Observer
}

// OpenForUser opens (and creates if needed) a SQLite DB file segregated per login.
// Base directory can be overridden via CLIENT_DB_PATH environment variable.
func OpenForUser(login string) (*Cache, string, error) {
	if login == "" {
		return nil, "", errors.New("empty login for user cache")
	}
	base := os.Getenv("CLIENT_DB_PATH")
	if base == "" {
		cfgDir, err := os.UserConfigDir()
		if err != nil {
			return nil, "", err
		}
		base = filepath.Join(cfgDir, "KVideo", "users")
	}
	dir := filepath.Join(base, login)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", err
	}
	dbPath := filepath.Join(dir, "cache.sqlite")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, "", err
	}
	c := &Cache{db: db}
	return c, dbPath, nil
}

// Close closes the underlying DB.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Migrate ensures the single required table exists.
func (c *Cache) Migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS slots (
  name TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at INTEGER NOT NULL
);
`
	_, err := c.db.Exec(ddl)
	return err
}

// Subscribe registers an observer called after every committed Set.
// Writes that happened before Subscribe are not replayed.
func (c *Cache) Subscribe(fn Observer) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Get returns the slot value; ok is false when the slot has never been written.
func (c *Cache) Get(name string) (value string, ok bool, err error) {
	err = c.db.QueryRow(`SELECT value FROM slots WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set upserts the slot and notifies observers.
func (c *Cache) Set(name, value string) error {
	now := time.Now().Unix()
	_, err := c.db.Exec(
		`INSERT INTO slots(name, value, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name, value, now,
	)
	if err != nil {
		return err
	}
	c.mu.Lock()
	obs := make([]Observer, len(c.observers))
	copy(obs, c.observers)
	c.mu.Unlock()
	for _, fn := range obs {
		fn(name, value)
	}
	return nil
}

// Delete removes a single slot. Missing slots are not an error.
func (c *Cache) Delete(name string) error {
	_, err := c.db.Exec(`DELETE FROM slots WHERE name = ?`, name)
	return err
}

// Clear wipes every slot. Used before booting a session so stale data
// from a previous login never leaks into the new one.
func (c *Cache) Clear() error {
	_, err := c.db.Exec(`DELETE FROM slots`)
	return err
}
