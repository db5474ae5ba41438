// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the alert.rip API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - PeopleHandler: list, fetch, add and remove deceased people
  - CandleHandler: the candle board and the tribute aggregate
  - ArticleHandler: news articles
  - AdminHandler: admin login

Handlers are created via constructor functions that accept *sql.DB and Config:

	candleHandler := handlers.NewCandleHandler(db, cfg)

# Lists

Every list endpoint takes the same query:

	GET /deadpeople?search=&page=&size=
	GET /candles?search=&page=&size=
	GET /news?search=&page=&size=

page defaults to 1 and size to 10 (max 100). search is a case-insensitive
substring match on the name or title, with Unicode case folding (see
db.SearchKey); empty matches everything. The total
count and the page are read concurrently and returned together.

# Tribute Aggregate

	PUT /candles/{urlname}  {"candle": 1}  -> {"urlname": "...", "candles": 42}

The delta must be exactly 1 or -1. The count never drops below zero. Any
caller may send either sign; the client decides whether a visitor lights or
blows out a candle. Admin callers are only distinguished in logs and metrics.

# Admin

	POST /admin/login {"password": "..."} -> {"token": "..."}

The token is sent as "Authorization: Bearer <token>" and is required for the
POST, PUT and DELETE routes on /deadpeople and /news. PUT replaces the
editable fields and keeps the urlname, the id and the candle count.

HTML in free-text fields is sanitized with bluemonday before it is stored.
*/
package handlers
