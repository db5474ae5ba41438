// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Schema is shared by SQLite and PostgreSQL, so it sticks to the common
// subset: TEXT ids, CURRENT_TIMESTAMP defaults, no serial columns.
const schema = `
-- People
CREATE TABLE IF NOT EXISTS dead_person (
    id TEXT PRIMARY KEY,
    urlname TEXT NOT NULL UNIQUE,
    fullname TEXT NOT NULL,
    search_name TEXT NOT NULL DEFAULT '',
    age INTEGER NOT NULL DEFAULT 0,
    birthday TIMESTAMP,
    birthplace TEXT NOT NULL DEFAULT '',
    dead_day TIMESTAMP,
    dead_place TEXT NOT NULL DEFAULT '',
    career TEXT NOT NULL DEFAULT '',
    death TEXT NOT NULL DEFAULT '',
    reason TEXT NOT NULL DEFAULT '',
    net_worth TEXT NOT NULL DEFAULT '',
    photo TEXT NOT NULL DEFAULT '',
    facebook TEXT NOT NULL DEFAULT '',
    twitter TEXT NOT NULL DEFAULT '',
    instagram TEXT NOT NULL DEFAULT '',
    youtube TEXT NOT NULL DEFAULT '',
    candles INTEGER NOT NULL DEFAULT 0 CHECK (candles >= 0),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_dead_person_candles ON dead_person(candles);
CREATE INDEX IF NOT EXISTS idx_dead_person_created_at ON dead_person(created_at);

-- News
CREATE TABLE IF NOT EXISTS article (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    search_title TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    hashtags TEXT NOT NULL DEFAULT '',
    photo TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_article_created_at ON article(created_at);
`
