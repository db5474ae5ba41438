// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// SearchKey folds text for the search_name and search_title columns and for
// the terms matched against them. SQL LOWER() only folds ASCII on SQLite, so
// both sides are folded here instead.
func SearchKey(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
