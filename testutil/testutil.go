// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/alertrip/alertrip/auth"
	"github.com/alertrip/alertrip/cliparse"
	"github.com/alertrip/alertrip/db"
)

// TestAdminPassword is the admin password accepted by GetTestConfig
const TestAdminPassword = "test-admin-password"

var (
	hashOnce  sync.Once
	adminHash string
)

// SetupTestDB creates a fresh SQLite database with the full schema in a
// per-test temporary directory
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	hashOnce.Do(func() {
		// MinCost keeps the suite fast; production hashes use DefaultCost
		h, err := bcrypt.GenerateFromPassword([]byte(TestAdminPassword), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		adminHash = string(h)
	})

	return cliparse.Config{
		Port:              3318,
		DatabaseType:      db.TypeSQLite,
		DatabaseURL:       ":memory:",
		AdminPasswordHash: adminHash,
		TokenSalt:         "test-token-salt",
	}
}

// AdminToken issues a valid admin token for the config
func AdminToken(t *testing.T, cfg cliparse.Config) string {
	t.Helper()

	token, err := auth.IssueAdminToken(cfg.TokenSalt)
	if err != nil {
		t.Fatalf("Failed to issue admin token: %v", err)
	}
	return token
}

// CreateTestPerson inserts a person with the given candle count
func CreateTestPerson(t *testing.T, conn *sql.DB, urlname, fullname string, candles int) string {
	t.Helper()

	personID, _ := auth.GenerateID(8)
	_, err := conn.Exec(`
		INSERT INTO dead_person (id, urlname, fullname, search_name, age, candles, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, personID, urlname, fullname, db.SearchKey(fullname), 80, candles, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test person: %v", err)
	}

	return personID
}

// CreateTestArticle inserts a news article and returns its ID
func CreateTestArticle(t *testing.T, conn *sql.DB, title string) string {
	t.Helper()

	articleID, _ := auth.GenerateID(8)
	_, err := conn.Exec(`
		INSERT INTO article (id, title, search_title, description, hashtags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, articleID, title, db.SearchKey(title), "<p>"+title+"</p>", "news", time.Now())
	if err != nil {
		t.Fatalf("Failed to create test article: %v", err)
	}

	return articleID
}

// CandleCount reads the stored aggregate for a person
func CandleCount(t *testing.T, conn *sql.DB, urlname string) int {
	t.Helper()

	var candles int
	if err := conn.QueryRow(`SELECT candles FROM dead_person WHERE urlname = $1`, urlname).Scan(&candles); err != nil {
		t.Fatalf("Failed to read candles for %s: %v", urlname, err)
	}
	return candles
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
