// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package clientstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alertrip/alertrip/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS persisted (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);
`

// SQLite keeps values in a local database file so they survive restarts
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the store at path
func OpenSQLite(path string) (*SQLite, error) {
	conn, err := db.Open(db.TypeSQLite, path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create client store schema: %w", err)
	}

	return &SQLite{db: conn, now: time.Now}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Get(key string) (string, bool, error) {
	var value string
	var expiresAt int64
	err := s.db.QueryRow(`SELECT value, expires_at FROM persisted WHERE key = $1`, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if s.now().UnixNano() >= expiresAt {
		if _, err := s.db.Exec(`DELETE FROM persisted WHERE key = $1`, key); err != nil {
			return "", false, fmt.Errorf("failed to expire %s: %w", key, err)
		}
		return "", false, nil
	}
	return value, true, nil
}

// Set stores value until ttl elapses. A ttl of zero or less deletes the key.
func (s *SQLite) Set(key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		if _, err := s.db.Exec(`DELETE FROM persisted WHERE key = $1`, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
		return nil
	}

	_, err := s.db.Exec(`
		INSERT INTO persisted (key, value, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, key, value, s.now().Add(ttl).UnixNano())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
