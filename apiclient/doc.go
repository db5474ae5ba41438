// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package apiclient is the HTTP client for the alert.rip API. A Client is
// both the list source for browse controllers and the candle aggregator for
// a ledger; holding an admin token makes it privileged.
package apiclient
