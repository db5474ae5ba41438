// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package clientstore provides client-held key/value storage with per-key
// expiry, the terminal stand-in for browser cookies. Memory lasts for the
// process; SQLite persists to a local file.
package clientstore
