package fallback

import (
	"context"
	"log/slog"

	"github.com/bornholm/websearch/pkg/search"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// DefaultOrder is the provider priority used when no explicit order is
// configured.
var DefaultOrder = []string{"google", "serpapi", "duckduckgo"}

// Client tries a set of named providers one after the other and returns the
// first non-empty result set.
type Client struct {
	registry        map[string]search.Client
	order           []string
	continueOnError bool
}

type OptionFunc func(c *Client)

// WithContinueOnError makes a failing provider behave like one that returned
// no results: the scan moves on and the collected errors are only returned
// once the whole chain is exhausted without a hit.
func WithContinueOnError() OptionFunc {
	return func(c *Client) {
		c.continueOnError = true
	}
}

// Search implements search.Client. Providers are tried strictly in the
// configured order, the first non-empty result set ends the scan. Names
// without a registered provider are skipped. A provider failure aborts the
// remaining chain unless WithContinueOnError was set. An exhausted chain is
// not an error: the query simply has no results.
func (c *Client) Search(ctx context.Context, query string) ([]search.Result, error) {
	var aggregatedErr error

	for _, name := range c.order {
		client, exists := c.registry[name]
		if !exists {
			slog.DebugContext(ctx, "no provider registered under this name, skipping", slog.String("provider", name))
			continue
		}

		results, err := client.Search(ctx, query)
		if err != nil {
			if c.continueOnError {
				slog.WarnContext(ctx, "provider failed, trying next one", slog.String("provider", name), slog.Any("error", errors.WithStack(err)))
				aggregatedErr = multierror.Append(aggregatedErr, errors.WithStack(err))
				continue
			}

			return nil, errors.WithStack(err)
		}

		if len(results) == 0 {
			slog.DebugContext(ctx, "provider returned no results, trying next one", slog.String("provider", name))
			continue
		}

		return results, nil
	}

	return nil, aggregatedErr
}

func NewClient(registry map[string]search.Client, order []string, funcs ...OptionFunc) *Client {
	if order == nil {
		order = DefaultOrder
	}

	client := &Client{
		registry: registry,
		order:    order,
	}

	for _, fn := range funcs {
		fn(client)
	}

	return client
}

var _ search.Client = &Client{}
