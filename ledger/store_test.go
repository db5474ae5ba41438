// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/alertrip/alertrip/clientstore"
	"github.com/alertrip/alertrip/notify"
)

func TestParseRefs(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		corrupt bool
	}{
		{"empty", "", nil, false},
		{"single", "jane-doe", []string{"jane-doe"}, false},
		{"several", "a,b,c", []string{"a", "b", "c"}, false},
		{"non-ascii", "nguyễn-văn-a", []string{"nguyễn-văn-a"}, false},
		{"empty middle segment", "a,,b", nil, true},
		{"trailing comma", "a,", nil, true},
		{"lone comma", ",", nil, true},
		{"control character", "a\x00b", nil, true},
		{"invalid utf-8", "a\xffb", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRefs(tt.raw)
			if tt.corrupt {
				if !errors.Is(err, ErrCorruptStore) {
					t.Errorf("Expected ErrCorruptStore, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestContributionStore_AddRemove(t *testing.T) {
	mem := clientstore.NewMemory()
	s := NewContributionStore(mem)

	s.Add("a")
	s.Add("b")
	s.Add("a")

	if raw, _, _ := mem.Get(StoreKey); raw != "a,b" {
		t.Errorf("Expected a,b, got %q", raw)
	}

	s.Remove("a")
	if s.Contains("a") || !s.Contains("b") {
		t.Errorf("Unexpected contents after remove: %v", s.Load())
	}

	// Removing an absent ref is a no-op rewrite
	if err := s.Remove("zzz"); err != nil {
		t.Errorf("Remove of absent ref failed: %v", err)
	}
	if raw, _, _ := mem.Get(StoreKey); raw != "b" {
		t.Errorf("Expected b, got %q", raw)
	}
}

func TestContributionStore_CorruptionFailsOpen(t *testing.T) {
	for _, raw := range []string{"a,,b", "\xff\xfe", ",", "a\nb"} {
		mem := clientstore.NewMemory()
		mem.Set(StoreKey, raw, time.Hour)

		l := New(NewContributionStore(mem), newFakeAggregator(), WithNotifier(notify.Discard))
		for _, ref := range []string{"a", "b", ""} {
			if l.IsLit(ref) {
				t.Errorf("Store %q: expected IsLit(%q) false", raw, ref)
			}
		}

		// Lighting a candle replaces the unreadable value
		out, err := l.Toggle(context.Background(), "a", false)
		if err != nil || !out.Lit {
			t.Errorf("Store %q: expected toggle to light, got %+v, %v", raw, out, err)
		}
		if got, _, _ := mem.Get(StoreKey); got != "a" {
			t.Errorf("Store %q: expected rewritten value a, got %q", raw, got)
		}
	}
}

type brokenPersister struct{}

func (brokenPersister) Get(string) (string, bool, error) {
	return "", false, errors.New("disk gone")
}

func (brokenPersister) Set(string, string, time.Duration) error {
	return errors.New("disk gone")
}

func TestToggle_PersisterFailureStillSendsDelta(t *testing.T) {
	agg := newFakeAggregator()
	l := New(NewContributionStore(brokenPersister{}), agg, WithNotifier(notify.Discard))

	if l.IsLit("a") {
		t.Error("Expected unreadable store to read as unlit")
	}

	out, err := l.Toggle(context.Background(), "a", false)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if out.Delta != 1 || out.Total != 1 {
		t.Errorf("Unexpected outcome: %+v", out)
	}
	if n := len(agg.Calls()); n != 1 {
		t.Errorf("Expected one remote call, got %d", n)
	}
}

func TestStoreTTL(t *testing.T) {
	if StoreTTL != 365*24*time.Hour {
		t.Errorf("Expected one-year TTL, got %v", StoreTTL)
	}
}
