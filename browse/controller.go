// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package browse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"

	"github.com/alertrip/alertrip/models"
	"github.com/alertrip/alertrip/notify"
)

// PageSize is fixed for every list
const PageSize = models.DefaultPageSize

var (
	ErrRemoteUnavailable = errors.New("list service unavailable")
	// ErrStale is returned for a fetch that was overtaken by a later one
	ErrStale       = errors.New("stale list response discarded")
	ErrInvalidPage = errors.New("page must be at least 1")
)

// Query is what the controller asks the list service for. Search is always
// sent, even when empty.
type Query struct {
	Kind   string
	Search string
	Page   int
	Size   int
}

type Result struct {
	Items      []models.Entity
	TotalCount int
}

// Lister fetches one page of a list
type Lister interface {
	FetchList(ctx context.Context, q Query) (Result, error)
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFetching
	PhaseClamping
)

func (p Phase) String() string {
	switch p {
	case PhaseFetching:
		return "fetching"
	case PhaseClamping:
		return "clamping"
	default:
		return "idle"
	}
}

// State is a snapshot of the browse state
type State struct {
	Search     string
	Page       int
	PageSize   int
	TotalCount int
	TotalPages int
	// ItemsPage is the page the current items were fetched for. It lags Page
	// after a failed fetch and is 0 until the first successful one.
	ItemsPage int
}

// TotalPages derives the page count from a total, never less than 1
func TotalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 1
	}
	return (totalCount-1)/pageSize + 1
}

// Seed reads (search, page) from a query. A missing, invalid or < 1 page
// is page 1.
func Seed(q url.Values) (search string, page int) {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return q.Get("search"), page
}

// Controller owns one browse session: the search term and page the user
// asked for, the totals last fetched, and the location they are mirrored to.
type Controller struct {
	kind     string
	lister   Lister
	loc      Location
	notifier notify.Notifier

	mu         sync.Mutex
	search     string
	page       int
	totalCount int
	totalPages int
	items      []models.Entity
	itemsPage  int
	phase      Phase
	seq        uint64
	pushed     string
	hasPushed  bool
}

type Option func(*Controller)

// WithNotifier reports list failures. The default logs them.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// New creates a controller seeded from the location's current query. No
// fetch happens until Load or a setter is called.
func New(kind string, lister Lister, loc Location, opts ...Option) *Controller {
	query := loc.Query()
	search, page := Seed(query)

	c := &Controller{
		kind:       kind,
		lister:     lister,
		loc:        loc,
		notifier:   notify.Log{},
		search:     search,
		page:       page,
		totalPages: 1,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Already mirrored: the first sync must not navigate again
	if query.Has("search") && query.Get("page") == strconv.Itoa(page) {
		c.pushed, c.hasPushed = locationKey(search, page), true
	}
	return c
}

func (c *Controller) Kind() string { return c.kind }

func (c *Controller) Search() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Search:     c.search,
		Page:       c.page,
		PageSize:   PageSize,
		TotalCount: c.totalCount,
		TotalPages: c.totalPages,
		ItemsPage:  c.itemsPage,
	}
}

// Items returns the entities of the last applied page
func (c *Controller) Items() []models.Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Entity(nil), c.items...)
}

// Load fetches the current state, as on first render
func (c *Controller) Load(ctx context.Context) error {
	return c.refresh(ctx)
}

// SetSearch changes the search term and refetches. The page is kept; it is
// reset only if the new total proves it out of range.
func (c *Controller) SetSearch(ctx context.Context, search string) error {
	c.mu.Lock()
	c.search = search
	c.mu.Unlock()
	return c.refresh(ctx)
}

func (c *Controller) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	return c.refresh(ctx)
}

// refresh runs Fetching, and Clamping -> Fetching whenever the fetched page
// is out of range. A clamp sets page 1, which no total can put out of range,
// so only a concurrent SetPage can cause a further round.
func (c *Controller) refresh(ctx context.Context) error {
	for {
		c.syncLocation()

		seq, q := c.begin()
		res, err := c.lister.FetchList(ctx, q)
		clamped, err := c.apply(ctx, seq, res, err)
		if err != nil || !clamped {
			return err
		}
	}
}

// begin issues the next sequence number and derives the outbound query
func (c *Controller) begin() (uint64, Query) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.phase = PhaseFetching
	return c.seq, Query{
		Kind:   c.kind,
		Search: c.search,
		Page:   c.page,
		Size:   PageSize,
	}
}

// apply takes a fetch result if it belongs to the latest fetch. It reports
// whether the page had to be clamped.
func (c *Controller) apply(ctx context.Context, seq uint64, res Result, fetchErr error) (bool, error) {
	c.mu.Lock()

	if seq != c.seq {
		c.mu.Unlock()
		slog.Debug("discarding stale list response", "kind", c.kind, "seq", seq)
		return false, ErrStale
	}

	if fetchErr != nil {
		c.phase = PhaseIdle
		c.mu.Unlock()

		err := fmt.Errorf("%w: %w", ErrRemoteUnavailable, fetchErr)
		slog.Warn("list fetch failed", "kind", c.kind, "error", err)
		c.notifier.Notify(ctx, err)
		return false, err
	}
	defer c.mu.Unlock()

	c.totalCount = max(0, res.TotalCount)
	c.totalPages = TotalPages(c.totalCount, PageSize)

	if c.page > c.totalPages {
		slog.Debug("page out of range, clamping", "kind", c.kind, "page", c.page, "total_pages", c.totalPages)
		c.page = 1
		c.phase = PhaseClamping
		return true, nil
	}

	c.items = res.Items
	c.itemsPage = c.page
	c.phase = PhaseIdle
	return false, nil
}

// syncLocation mirrors (search, page) into the location. Writing the same
// pair twice navigates once.
func (c *Controller) syncLocation() {
	c.mu.Lock()
	search, page := c.search, c.page
	key := locationKey(search, page)
	if c.hasPushed && key == c.pushed {
		c.mu.Unlock()
		return
	}
	c.pushed, c.hasPushed = key, true
	c.mu.Unlock()

	q := c.loc.Query()
	q.Set("search", search)
	q.Set("page", strconv.Itoa(page))
	if err := c.loc.Push(q); err != nil {
		slog.Warn("failed to update location", "kind", c.kind, "error", err)
	}
}

func locationKey(search string, page int) string {
	return url.Values{"search": {search}, "page": {strconv.Itoa(page)}}.Encode()
}
