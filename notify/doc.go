// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify delivers transient failure notices from the client core.

Remote failures in the ledger and browse packages are caught where they
happen and handed to a Notifier instead of being propagated:

	l := ledger.New(store, api, ledger.WithNotifier(notify.Log{}))

Recorder is meant for tests and for callers that drain notices later.
*/
package notify
