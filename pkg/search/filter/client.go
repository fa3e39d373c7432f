package filter

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/bornholm/websearch/pkg/search"
	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// Client wraps a search client and drops results whose host does not pass
// the configured allow/deny glob patterns. Deny patterns take precedence
// over allow patterns; an empty allow list allows every host.
type Client struct {
	client  search.Client
	allowed []glob.Glob
	denied  []glob.Glob
}

// Search implements search.Client.
func (c *Client) Search(ctx context.Context, query string) ([]search.Result, error) {
	results, err := c.client.Search(ctx, query)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	filtered := make([]search.Result, 0, len(results))

	for _, r := range results {
		resultURL, err := url.Parse(r.URL)
		if err != nil {
			slog.DebugContext(ctx, "dropping result with unparseable url", slog.String("url", r.URL))
			continue
		}

		if !c.match(resultURL.Hostname()) {
			slog.DebugContext(ctx, "dropping filtered result", slog.String("url", r.URL))
			continue
		}

		filtered = append(filtered, r)
	}

	return filtered, nil
}

func (c *Client) match(host string) bool {
	for _, p := range c.denied {
		if p.Match(host) {
			return false
		}
	}

	if len(c.allowed) == 0 {
		return true
	}

	for _, p := range c.allowed {
		if p.Match(host) {
			return true
		}
	}

	return false
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		pattern, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "could not compile pattern '%s'", p)
		}

		compiled = append(compiled, pattern)
	}

	return compiled, nil
}

func NewClient(client search.Client, allowed []string, denied []string) (*Client, error) {
	allowedPatterns, err := compilePatterns(allowed)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	deniedPatterns, err := compilePatterns(denied)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Client{
		client:  client,
		allowed: allowedPatterns,
		denied:  deniedPatterns,
	}, nil
}

var _ search.Client = &Client{}
