package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteSlots stores slots as rows of a single key/value table.
type SQLiteSlots struct {
	db *sql.DB
}

func NewSQLiteSlots(dbPath string) (*SQLiteSlots, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	s := &SQLiteSlots{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteSlots) Close() error {
	return s.db.Close()
}

func (s *SQLiteSlots) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS slots (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);`)
	return err
}

func (s *SQLiteSlots) Load(key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow("SELECT value FROM slots WHERE key = ?", key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("select slot %q: %w", key, err)
	}
	return data, nil
}

func (s *SQLiteSlots) Save(key string, data []byte) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO slots (key, value, updated_at) VALUES (?, ?, ?)",
		key, data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert slot %q: %w", key, err)
	}
	return nil
}
