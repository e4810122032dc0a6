/*
Package curator turns a package catalog into the three views a store
front shows: available, installed and upgradable.

A pass resolves the category list (the synthetic All, What's New and
Recently Updated labels followed by the catalog's own categories),
classifies every record in one scan and orders the available view for the
recency categories. Results are published as an immutable ViewSet and
announced to subscribers.

	cur := curator.New(logger)
	unsubscribe := cur.Subscribe(func(ev curator.Event) { ... })
	defer unsubscribe()

	result, err := cur.Curate(ctx, records, curator.PassConfig{
		Labels:      types.LabelsFor("en"),
		HistoryDays: 14,
		Filter:      compat,
		Host:        host,
	})

Passes are serialized. Everything a pass reads is passed in; the curator
never consults preferences or global state.
*/
package curator
