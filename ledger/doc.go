// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger is the client side of candle tributes.

A ContributionStore remembers which people this client has lit a candle for,
as one comma-joined value under the "candle" key with a one-year lifetime.
A Ledger reads it before each toggle and decides the delta:

	ordinary client, not lit -> +1, now lit
	ordinary client, lit     -> -1, now unlit
	privileged client        -> +1, always

The store is written before the Aggregator answers. A failed call leaves it as
written and is reported through the Notifier; Status shows the failure.

Each toggle of an entity gets a sequence number. Only the answer to the
latest toggle updates Count; earlier answers come back with Outcome.Stale.

An unreadable store is treated as empty.
*/
package ledger
