// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package browse keeps a paginated, searchable list in step with a remote
total and with the address bar.

A Controller is seeded from the location's ?search=&page= query. Every
SetSearch or SetPage runs:

	sync location -> Fetching -> apply totals
	                                 page > totalPages? -> Clamping (page = 1) -> Fetching -> apply
	                                                   -> Idle

The clamp round runs at most once per change: page 1 is within range for any
total. A SetPage racing with a clamp is itself a change, so the fetch that
carries its page is checked and clamped like any other.

Location sync is keyed on (search, page) only and happens before the fetch,
so the URL shows what the user asked for while data is in flight. Pushing
the same pair twice navigates once. An empty search is still written and
sent.

Each fetch gets a sequence number; a response overtaken by a later fetch is
dropped and its caller gets ErrStale.
*/
package browse
