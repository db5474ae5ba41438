package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alertrip/alertrip/ledger"
	"github.com/alertrip/alertrip/router"
	"github.com/alertrip/alertrip/testutil"
)

type harness struct {
	t     *testing.T
	db    *sql.DB
	api   string
	state string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testutil.SetupTestDB(t)
	srv := httptest.NewServer(router.NewRouter(db, testutil.GetTestConfig()))
	t.Cleanup(srv.Close)

	return &harness{
		t:     t,
		db:    db,
		api:   srv.URL,
		state: filepath.Join(t.TempDir(), "ripctl.db"),
	}
}

// ripctl runs one command and returns its output
func (h *harness) ripctl(stdin string, args ...string) (string, error) {
	h.t.Helper()

	var out bytes.Buffer
	full := append([]string{"-api", h.api, "-state", h.state}, args...)
	err := run(context.Background(), full, strings.NewReader(stdin), &out)
	return out.String(), err
}

func (h *harness) mustRipctl(args ...string) string {
	h.t.Helper()

	out, err := h.ripctl("", args...)
	if err != nil {
		h.t.Fatalf("ripctl %v failed: %v\n%s", args, err, out)
	}
	return out
}

func TestUsageErrors(t *testing.T) {
	h := newHarness(t)

	tests := [][]string{
		{},
		{"dance"},
		{"login"},
		{"candle"},
		{"consent", "maybe"},
		{"browse", "-kind", "comments"},
	}
	for _, args := range tests {
		if _, err := h.ripctl("", args...); !errors.Is(err, errUsage) {
			t.Errorf("ripctl %v: expected usage error, got %v", args, err)
		}
	}
}

func TestCandleRequiresConsent(t *testing.T) {
	h := newHarness(t)
	testutil.CreateTestPerson(t, h.db, "jane-doe", "Jane Doe", 0)

	if _, err := h.ripctl("", "candle", "jane-doe"); !errors.Is(err, ledger.ErrNoConsent) {
		t.Fatalf("Expected ErrNoConsent, got %v", err)
	}
	if got := testutil.CandleCount(t, h.db, "jane-doe"); got != 0 {
		t.Errorf("Expected no candle without consent, got %d", got)
	}

	if out := h.mustRipctl("consent"); !strings.Contains(out, "not given") {
		t.Errorf("Unexpected consent status: %s", out)
	}
	if out := h.mustRipctl("consent", "accept"); !strings.Contains(out, "accepted") {
		t.Errorf("Unexpected consent status: %s", out)
	}
}

func TestCandleToggle(t *testing.T) {
	h := newHarness(t)
	testutil.CreateTestPerson(t, h.db, "jane-doe", "Jane Doe", 1233)
	h.mustRipctl("consent", "accept")

	out := h.mustRipctl("candle", "jane-doe")
	if !strings.Contains(out, "your candle: lit") || !strings.Contains(out, "candles: 1,234") {
		t.Errorf("Unexpected output after lighting:\n%s", out)
	}

	out = h.mustRipctl("candle", "-check", "jane-doe")
	if !strings.Contains(out, "your candle: lit") {
		t.Errorf("Expected state to persist across runs:\n%s", out)
	}

	out = h.mustRipctl("candle", "jane-doe")
	if !strings.Contains(out, "your candle: out") || !strings.Contains(out, "candles: 1,233") {
		t.Errorf("Unexpected output after blowing out:\n%s", out)
	}
}

func TestCandleUnknownPerson(t *testing.T) {
	h := newHarness(t)
	h.mustRipctl("consent", "accept")

	if _, err := h.ripctl("", "candle", "nobody"); err == nil {
		t.Error("Expected error for unknown person")
	}
}

func TestAdminAccumulates(t *testing.T) {
	h := newHarness(t)
	testutil.CreateTestPerson(t, h.db, "jane-doe", "Jane Doe", 0)
	h.mustRipctl("consent", "accept")

	if _, err := h.ripctl("", "login", "wrong"); err == nil {
		t.Fatal("Expected login with wrong password to fail")
	}
	h.mustRipctl("login", testutil.TestAdminPassword)

	for i := 1; i <= 3; i++ {
		out := h.mustRipctl("candle", "jane-doe")
		if !strings.Contains(out, fmt.Sprintf("candles: %d", i)) {
			t.Errorf("Run %d: unexpected output:\n%s", i, out)
		}
	}

	// Back to one vote after logging out: the candle is lit, so it goes out
	h.mustRipctl("logout")
	h.mustRipctl("candle", "jane-doe")
	if got := testutil.CandleCount(t, h.db, "jane-doe"); got != 2 {
		t.Errorf("Expected 2 candles, got %d", got)
	}
}

func TestBrowseSession(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 25; i++ {
		testutil.CreateTestPerson(t, h.db, fmt.Sprintf("p-%02d", i), fmt.Sprintf("Person %02d", i), i)
	}

	script := strings.Join([]string{"n", "p", "p", "s person 2", "g 9", "g x", "zz", "q"}, "\n")
	out, err := h.ripctl(script, "browse", "-kind", "candles", "-page", "5")
	if err != nil {
		t.Fatalf("browse failed: %v\n%s", err, out)
	}

	for _, want := range []string{
		"page 1 of 3, 25 results  [/candles?page=1&search=]",
		"page 2 of 3, 25 results  [/candles?page=2&search=]",
		"already on the first page",
		"page 1 of 1, 5 results  [/candles?page=1&search=person+2]",
		"g takes a page number",
		"commands:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestBrowseServerDown(t *testing.T) {
	h := newHarness(t)
	h.api = "http://127.0.0.1:1"

	out, err := h.ripctl("q\n", "browse", "-kind", "people")
	if err != nil {
		t.Fatalf("Expected browse to survive a failed fetch, got %v", err)
	}
	if !strings.Contains(out, "! list service unavailable") {
		t.Errorf("Expected a notification, got:\n%s", out)
	}
	if !strings.Contains(out, "nothing loaded  [/?page=1&search=]") {
		t.Errorf("Expected an empty listing, got:\n%s", out)
	}
}

func TestBrowseFailedPageKeepsLastListing(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 25; i++ {
		testutil.CreateTestPerson(t, h.db, fmt.Sprintf("p-%02d", i), fmt.Sprintf("Person %02d", i), i)
	}

	// page 2 is unavailable
	mux := router.NewRouter(h.db, testutil.GetTestConfig())
	flaky := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	defer flaky.Close()
	h.api = flaky.URL

	out, err := h.ripctl("n\nq\n", "browse", "-kind", "candles")
	if err != nil {
		t.Fatalf("browse failed: %v\n%s", err, out)
	}

	_, after, _ := strings.Cut(out, "! list service unavailable")
	for _, want := range []string{
		"(last loaded page)",
		"page 1 of 3, 25 results  [/candles?page=2&search=]",
	} {
		if !strings.Contains(after, want) {
			t.Errorf("Expected %q after the failure:\n%s", want, out)
		}
	}
	if strings.Contains(after, "  11. ") {
		t.Errorf("Page 1 items must keep their page 1 numbers:\n%s", out)
	}
}
