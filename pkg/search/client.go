package search

import "context"

// Client is the capability exposed by every search provider: a query in,
// a list of results out. Implementations may perform network I/O and are
// expected to honor the given context.
type Client interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Result is a single search hit. Its shape is owned by the provider that
// produced it; Source carries the provider name.
type Result struct {
	Title       string
	URL         string
	Description string
	Source      string
}
