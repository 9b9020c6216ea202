// Package fetch defines the source adapter contract and the registry that
// scrapes every configured source concurrently for one run.
package fetch

import "errors"

// Sentinel errors for scrape operations.
var (
	// ErrSourceFetch indicates that an adapter could not retrieve or parse its
	// source. Adapters log it and contribute zero items; it never crosses the
	// Adapter boundary.
	ErrSourceFetch = errors.New("failed to fetch source")

	// ErrAdapterPanic indicates that an adapter panicked during Scrape.
	ErrAdapterPanic = errors.New("source adapter panicked")
)
