// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the alert.rip API server.

alert.rip is a memorial site: visitors browse deceased people and news, and
light a candle for someone. The server keeps the candle count of record; the
client side of the candle and browse logic lives in the ledger and browse
packages, with cmd/ripctl as a terminal client.

# Starting the Server

The server reads environment variables, a .env file or CLI flags:

	ADMIN_PASSWORD_HASH='$2a$10$...' TOKEN_SALT=secret go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -admin-hash '$2a$10$...' -token-salt secret

# Configuration

Required settings:

  - ADMIN_PASSWORD_HASH (-admin-hash): bcrypt hash of the admin password
  - TOKEN_SALT (-token-salt): Secret for admin token signatures

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or pgx (default: sqlite)
  - DATABASE_URL (-d): DSN; defaults to alertrip.db for sqlite
  - -env: dotenv file to load first (default: .env)

# Architecture

  - handlers: HTTP request handlers (people, candles, news, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, request IDs, admin auth, JSON helpers
  - metrics: Prometheus instruments
  - models: Request/response types
  - auth: IDs, bcrypt and admin token signing
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
