// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Contributions live under one persisted key for one year
const (
	StoreKey = "candle"
	StoreTTL = 365 * 24 * time.Hour
)

var (
	ErrCorruptStore = errors.New("contribution store is corrupt")
	ErrInvalidRef   = errors.New("invalid entity ref")
)

// Persister is client-held key/value storage with per-key expiry
type Persister interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string, ttl time.Duration) error
}

// ContributionStore is the set of entity refs this client has lit a candle
// for, kept as one comma-joined value.
type ContributionStore struct {
	p Persister
}

func NewContributionStore(p Persister) *ContributionStore {
	return &ContributionStore{p: p}
}

// Load returns the stored refs. Read failures and unparsable values yield an
// empty list.
func (s *ContributionStore) Load() []string {
	raw, ok, err := s.p.Get(StoreKey)
	if err != nil {
		slog.Warn("failed to read contribution store", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	refs, err := ParseRefs(raw)
	if err != nil {
		slog.Warn("ignoring unreadable contribution store", "error", err)
		return nil
	}
	return refs
}

func (s *ContributionStore) Contains(ref string) bool {
	return slices.Contains(s.Load(), ref)
}

// Add appends ref if absent and rewrites the value, refreshing its expiry
func (s *ContributionStore) Add(ref string) error {
	if err := ValidateRef(ref); err != nil {
		return err
	}

	refs := s.Load()
	if !slices.Contains(refs, ref) {
		refs = append(refs, ref)
	}
	return s.save(refs)
}

// Remove drops every occurrence of ref and rewrites the value
func (s *ContributionStore) Remove(ref string) error {
	refs := slices.DeleteFunc(s.Load(), func(r string) bool { return r == ref })
	return s.save(refs)
}

func (s *ContributionStore) save(refs []string) error {
	if err := s.p.Set(StoreKey, strings.Join(refs, ","), StoreTTL); err != nil {
		return fmt.Errorf("failed to persist contributions: %w", err)
	}
	return nil
}

// ParseRefs splits a stored value. The empty string is the empty list; any
// other value with an empty segment, invalid UTF-8 or control characters is
// ErrCorruptStore.
func ParseRefs(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	if !utf8.ValidString(raw) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrCorruptStore)
	}

	refs := strings.Split(raw, ",")
	for i, ref := range refs {
		if ref == "" {
			return nil, fmt.Errorf("%w: empty entry at position %d", ErrCorruptStore, i)
		}
		if strings.IndexFunc(ref, unicode.IsControl) >= 0 {
			return nil, fmt.Errorf("%w: control character in entry %d", ErrCorruptStore, i)
		}
	}
	return refs, nil
}

// ValidateRef rejects refs that could not be read back by ParseRefs
func ValidateRef(ref string) error {
	if ref == "" || strings.Contains(ref, ",") || !utf8.ValidString(ref) ||
		strings.IndexFunc(ref, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return nil
}
