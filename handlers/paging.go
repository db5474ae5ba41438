// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"html"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/alertrip/alertrip/db"
	"github.com/alertrip/alertrip/models"
)

var (
	// richText keeps the formatting the editors paste into career/death/description
	richText = bluemonday.UGCPolicy()
	// plainText strips every tag from single-line fields
	plainText = bluemonday.StrictPolicy()
)

// cleanText strips tags from a single-line field; entities are decoded back
// because the value is rendered as text, not HTML
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(s)))
}

type rowScanner interface {
	Scan(dest ...any) error
}

// pageParams is the parsed ?search=&page=&size= query of a list request
type pageParams struct {
	Search string
	Page   int
	Size   int
}

func parsePageParams(r *http.Request) pageParams {
	q := r.URL.Query()
	p := pageParams{
		Search: strings.TrimSpace(q.Get("search")),
		Page:   1,
		Size:   models.DefaultPageSize,
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(q.Get("size")); err == nil && n > 0 {
		p.Size = min(n, models.MaxPageSize)
	}
	return p
}

func (p pageParams) offset() int {
	return (p.Page - 1) * p.Size
}

// likePattern builds a substring pattern over the folded search columns; an
// empty search matches everything
func likePattern(search string) string {
	escape := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escape.Replace(db.SearchKey(search)) + "%"
}

// listPage runs the count query and the page query concurrently. Both take
// the LIKE pattern as $1; the page query also takes LIMIT $2 OFFSET $3.
func listPage[T any](ctx context.Context, conn *sql.DB, countQuery, pageQuery string, p pageParams, scan func(rowScanner) (T, error)) ([]T, int, error) {
	pattern := likePattern(p.Search)

	var total int
	items := make([]T, 0, p.Size)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return conn.QueryRowContext(ctx, countQuery, pattern).Scan(&total)
	})
	g.Go(func() error {
		rows, err := conn.QueryContext(ctx, pageQuery, pattern, p.Size, p.offset())
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			item, err := scan(rows)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// slugify turns a name into a urlname: lower-case letters and digits
// separated by single dashes. Accents are dropped, so "Édith" is "edith".
func slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if plain, _, err := transform.String(t, s); err == nil {
		s = plain
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// cleanPerson sanitizes a create or update body in place. It returns the
// validation failure, or "" when the body is usable.
func cleanPerson(req *models.CreatePersonRequest) string {
	req.Fullname = cleanText(req.Fullname)
	if req.Fullname == "" {
		return "fullname is required"
	}
	if req.Age < 0 {
		return "age cannot be negative"
	}

	req.Birthplace = cleanText(req.Birthplace)
	req.DeadPlace = cleanText(req.DeadPlace)
	req.Career = richText.Sanitize(req.Career)
	req.Death = richText.Sanitize(req.Death)
	req.Reason = cleanText(req.Reason)
	req.NetWorth = cleanText(req.NetWorth)
	return ""
}

// isUniqueViolation matches the duplicate-key errors of the supported drivers
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
