package scraper

import (
	"context"
	"io"
)

// Scraper fetches remote pages. Get returns the page body, Check only
// verifies that the url is reachable.
type Scraper interface {
	Get(ctx context.Context, url string) (io.ReadCloser, error)
	Check(ctx context.Context, url string) (bool, error)
}
