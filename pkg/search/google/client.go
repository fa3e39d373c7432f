package google

import (
	"context"
	"log/slog"

	"github.com/bornholm/websearch/pkg/search"
	"github.com/pkg/errors"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

const Name = "google"

const defaultMaxResults = 10

// Client implements the search.Client interface using the Google Custom
// Search API.
type Client struct {
	apiKey     string
	cx         string
	maxResults int64
}

type OptionFunc func(c *Client)

// WithMaxResults caps the number of results requested from the API
// (1 to 10, the API maximum).
func WithMaxResults(max int64) OptionFunc {
	return func(c *Client) {
		c.maxResults = max
	}
}

// Search implements the search.Client interface.
func (c *Client) Search(ctx context.Context, query string) ([]search.Result, error) {
	service, err := customsearch.NewService(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	slog.DebugContext(ctx, "executing google search", slog.String("query", query))

	call := service.Cse.List().Context(ctx)
	call.Q(query)
	call.Cx(c.cx)
	call.Num(c.maxResults)

	searchResult, err := call.Do()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var results []search.Result
	for _, item := range searchResult.Items {
		results = append(results, search.Result{
			Title:       item.Title,
			URL:         item.Link,
			Description: item.Snippet,
			Source:      Name,
		})
	}

	return results, nil
}

// NewClient creates a new Google Custom Search API client for the given API
// key and search engine ID.
func NewClient(apiKey, cx string, funcs ...OptionFunc) *Client {
	client := &Client{
		apiKey:     apiKey,
		cx:         cx,
		maxResults: defaultMaxResults,
	}

	for _, fn := range funcs {
		fn(client)
	}

	return client
}

var _ search.Client = &Client{}
