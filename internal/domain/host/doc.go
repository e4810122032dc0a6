// Package host drives the curator: it resolves preferences into pass
// configuration, re-curates when the catalog, preferences or category
// change, and owns the empty-catalog refresh policy. Catalog reloads run
// through a circuit breaker so a broken index directory is not re-read on
// every request.
package host
