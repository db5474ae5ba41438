// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package browse

import (
	"fmt"
	"net/url"
	"sync"
)

// Location is the navigable address the browse state is mirrored into.
// Push must not reload anything.
type Location interface {
	Query() url.Values
	Push(query url.Values) error
}

// URLLocation is an in-memory address bar with a history of pushed URLs
type URLLocation struct {
	mu      sync.Mutex
	u       url.URL
	history []string
}

func NewURLLocation(rawURL string) (*URLLocation, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", rawURL, err)
	}
	return &URLLocation{u: *u}, nil
}

func (l *URLLocation) Query() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.u.Query()
}

func (l *URLLocation) Push(query url.Values) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.u.RawQuery = query.Encode()
	l.history = append(l.history, l.u.String())
	return nil
}

// String returns the current URL
func (l *URLLocation) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.u.String()
}

// History returns every pushed URL, oldest first
func (l *URLLocation) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.history...)
}
