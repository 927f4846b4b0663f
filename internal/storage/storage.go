package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const DefaultSlot = "tasks"

// Store keeps named slots in a SQLite database. Each slot holds one opaque blob.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already opened database and makes sure the slot table exists.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS slots (
	name TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT ''
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureSlotColumns()
}

func (s *Store) ensureSlotColumns() error {
	required := map[string]string{
		"updated_at": "ALTER TABLE slots ADD COLUMN updated_at TEXT NOT NULL DEFAULT '';",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(slots);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

// Slot returns a handle on the named slot. The row is created on first Save.
func (s *Store) Slot(name string) *Slot {
	if name == "" {
		name = DefaultSlot
	}
	return &Slot{store: s, name: name}
}

// Names lists the slots that have been written, in name order.
func (s *Store) Names() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM slots ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return names, nil
}

type Slot struct {
	store *Store
	name  string
}

func (sl *Slot) Name() string {
	return sl.name
}

// Load returns the stored blob, or nil when the slot has never been written.
func (sl *Slot) Load() ([]byte, error) {
	var data string
	err := sl.store.db.QueryRow(`SELECT data FROM slots WHERE name = ?;`, sl.name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", sl.name, err)
	}
	return []byte(data), nil
}

// Save replaces the slot contents in a single statement.
func (sl *Slot) Save(data []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := sl.store.db.Exec(`
INSERT INTO slots (name, data, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at;`,
		sl.name, string(data), now)
	if err != nil {
		return fmt.Errorf("failed to save slot %s: %w", sl.name, err)
	}
	return nil
}

// UpdatedAt reports when the slot was last saved. ok is false for a slot never written.
func (sl *Slot) UpdatedAt() (at time.Time, ok bool, err error) {
	var raw string
	err = sl.store.db.QueryRow(`SELECT updated_at FROM slots WHERE name = ?;`, sl.name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read slot %s: %w", sl.name, err)
	}
	parsed, perr := time.Parse(time.RFC3339, raw)
	if perr != nil {
		return time.Time{}, false, nil
	}
	return parsed, true, nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
