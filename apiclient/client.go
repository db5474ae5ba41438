// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alertrip/alertrip/browse"
	"github.com/alertrip/alertrip/middleware"
	"github.com/alertrip/alertrip/models"
)

var ErrUnknownKind = errors.New("unknown list kind")

// StatusError is a non-2xx answer from the API
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the alert.rip API. It satisfies browse.Lister and
// ledger.Aggregator.
type Client struct {
	base *url.URL
	http *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken starts the client with a previously issued admin token
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: scheme and host required", baseURL)
	}

	c := &Client{
		base: u,
		// no client timeout; callers bound each call with ctx
		http: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// IsPrivileged reports whether an admin session token is held
func (c *Client) IsPrivileged() bool {
	return c.Token() != ""
}

// Login exchanges the admin password for a token and keeps it
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/admin/login", nil, models.LoginRequest{Password: password}, &resp); err != nil {
		return "", err
	}
	c.SetToken(resp.Token)
	return resp.Token, nil
}

// FetchList implements browse.Lister
func (c *Client) FetchList(ctx context.Context, q browse.Query) (browse.Result, error) {
	query := url.Values{}
	query.Set("search", q.Search)
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("size", strconv.Itoa(q.Size))

	switch q.Kind {
	case models.KindPeople, models.KindCandles:
		path := "/deadpeople"
		if q.Kind == models.KindCandles {
			path = "/candles"
		}
		var resp models.PeopleListResponse
		if err := c.do(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
			return browse.Result{}, err
		}
		items := make([]models.Entity, 0, len(resp.People))
		for _, p := range resp.People {
			items = append(items, models.Entity{Ref: p.URLName, Title: p.Fullname, Candles: p.Candles})
		}
		return browse.Result{Items: items, TotalCount: resp.Total}, nil

	case models.KindArticles:
		var resp models.ArticleListResponse
		if err := c.do(ctx, http.MethodGet, "/news", query, nil, &resp); err != nil {
			return browse.Result{}, err
		}
		items := make([]models.Entity, 0, len(resp.Articles))
		for _, a := range resp.Articles {
			items = append(items, models.Entity{Ref: a.ID, Title: a.Title})
		}
		return browse.Result{Items: items, TotalCount: resp.Total}, nil

	default:
		return browse.Result{}, fmt.Errorf("%w: %q", ErrUnknownKind, q.Kind)
	}
}

// ApplyDelta implements ledger.Aggregator
func (c *Client) ApplyDelta(ctx context.Context, ref string, delta int) (int, error) {
	var resp models.CandleResponse
	err := c.do(ctx, http.MethodPut, "/candles/"+url.PathEscape(ref), nil, models.CandleRequest{Candle: delta}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Candles, nil
}

// Person fetches one person by urlname
func (c *Client) Person(ctx context.Context, urlname string) (models.Person, error) {
	var p models.Person
	err := c.do(ctx, http.MethodGet, "/deadpeople/"+url.PathEscape(urlname), nil, nil, &p)
	return p, err
}

// do sends one JSON request. path must already be escaped.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.base.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.NewString()
	req.Header.Set(middleware.RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	slog.Debug("api call",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr models.ErrorResponse
		json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr)
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
