// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alertrip/alertrip/notify"
)

var (
	ErrRemoteUnavailable = errors.New("tribute service unavailable")
	ErrNoConsent         = errors.New("storage consent not given")
)

// Aggregator is the server of record for candle counts
type Aggregator interface {
	ApplyDelta(ctx context.Context, ref string, delta int) (newTotal int, err error)
}

// Status tracks the latest toggle of one entity against the service
type Status int

const (
	StatusNone Status = iota
	StatusPending
	StatusConfirmed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusFailed:
		return "failed"
	default:
		return "none"
	}
}

// Outcome is the result of one Toggle
type Outcome struct {
	Lit   bool
	Delta int
	// Total is the aggregate the service answered with; zero on failure
	Total int
	// Stale is set when a later toggle of the same entity was issued before
	// this one resolved. Its Total is not displayed.
	Stale bool
}

type entry struct {
	seq    uint64
	status Status
	total  int
	known  bool
}

// Ledger decides candle toggles for one client and keeps the displayed
// counts. Create one per client with New.
type Ledger struct {
	store    *ContributionStore
	agg      Aggregator
	notifier notify.Notifier
	consent  func() bool

	mu      sync.Mutex
	entries map[string]*entry
}

type Option func(*Ledger)

// WithNotifier reports remote failures. The default logs them.
func WithNotifier(n notify.Notifier) Option {
	return func(l *Ledger) { l.notifier = n }
}

// WithConsent gates every toggle on the user having accepted client storage
func WithConsent(consent func() bool) Option {
	return func(l *Ledger) { l.consent = consent }
}

func New(store *ContributionStore, agg Aggregator, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		agg:      agg,
		notifier: notify.Log{},
		entries:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IsLit reports whether this client holds an active contribution for ref
func (l *Ledger) IsLit(ref string) bool {
	return l.store.Contains(ref)
}

// Toggle lights or blows out this client's candle for ref and sends the
// delta to the service. Ordinary clients flip between lit and unlit;
// privileged callers always light another one.
//
// The store is written before the service answers and is not rolled back
// when the call fails.
func (l *Ledger) Toggle(ctx context.Context, ref string, privileged bool) (Outcome, error) {
	if err := ValidateRef(ref); err != nil {
		return Outcome{}, err
	}
	if l.consent != nil && !l.consent() {
		return Outcome{Lit: l.IsLit(ref)}, ErrNoConsent
	}

	out, seq := l.decide(ref, privileged)

	total, err := l.agg.ApplyDelta(ctx, ref, out.Delta)

	l.mu.Lock()
	e := l.entries[ref]
	out.Stale = seq != e.seq
	switch {
	case err != nil:
		if !out.Stale {
			e.status = StatusFailed
		}
	case out.Stale:
		out.Total = total
	default:
		out.Total = total
		e.total, e.known = total, true
		e.status = StatusConfirmed
	}
	l.mu.Unlock()

	if err != nil {
		err = fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
		slog.Warn("candle toggle failed", "ref", ref, "delta", out.Delta, "error", err)
		l.notifier.Notify(ctx, err)
		return out, err
	}
	if out.Stale {
		slog.Debug("discarding stale candle total", "ref", ref, "seq", seq, "total", total)
	}
	return out, nil
}

// decide applies the toggle rule to the store and issues a sequence number
func (l *Ledger) decide(ref string, privileged bool) (Outcome, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := Outcome{Lit: true, Delta: 1}
	var err error
	if l.store.Contains(ref) && !privileged {
		out = Outcome{Lit: false, Delta: -1}
		err = l.store.Remove(ref)
	} else {
		err = l.store.Add(ref)
	}
	if err != nil {
		// the delta is still sent; the next Load sees whatever was kept
		slog.Warn("failed to persist contribution", "ref", ref, "error", err)
	}

	e := l.entry(ref)
	e.seq++
	e.status = StatusPending
	return out, e.seq
}

func (l *Ledger) entry(ref string) *entry {
	e, ok := l.entries[ref]
	if !ok {
		e = &entry{}
		l.entries[ref] = e
	}
	return e
}

// Status returns the state of the latest toggle of ref
func (l *Ledger) Status(ref string) Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[ref]; ok {
		return e.status
	}
	return StatusNone
}

// Count returns the last aggregate applied for ref, if any
func (l *Ledger) Count(ref string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[ref]; ok && e.known {
		return e.total, true
	}
	return 0, false
}

// Seed primes the displayed count from a detail fetch. It is ignored while a
// toggle of ref is in flight.
func (l *Ledger) Seed(ref string, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entry(ref)
	if e.status == StatusPending {
		return
	}
	e.total, e.known = total, true
}
