// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Notifier surfaces a transient, dismissible failure to the user. It must not
// block and must never be fatal.
type Notifier interface {
	Notify(ctx context.Context, err error)
}

// Func adapts a plain function to a Notifier
type Func func(ctx context.Context, err error)

func (f Func) Notify(ctx context.Context, err error) {
	f(ctx, err)
}

// Log writes notifications to a structured logger at warn level
type Log struct {
	Logger *slog.Logger
}

func (l Log) Notify(ctx context.Context, err error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.WarnContext(ctx, "transient failure", "error", err)
}

// Discard drops every notification
var Discard Notifier = Func(func(context.Context, error) {})

// Recorder keeps every notification it receives
type Recorder struct {
	mu   sync.Mutex
	errs []error
}

func (r *Recorder) Notify(_ context.Context, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

// Errors returns a copy of the recorded notifications in arrival order
func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}
