package meta

import (
	"context"
	"sync"

	se "github.com/bornholm/websearch/pkg/search"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Client queries every wrapped provider in parallel and merges their
// results, deduplicating by URL. First writer wins on duplicates.
type Client struct {
	clients []se.Client
}

// Search implements search.Client.
func (c *Client) Search(ctx context.Context, query string) ([]se.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan se.Result)

	var errLock sync.Mutex
	var aggregatedErr error

	var wg sync.WaitGroup

	wg.Add(len(c.clients))

	for _, cl := range c.clients {
		go func(client se.Client) {
			defer wg.Done()

			clientResults, err := client.Search(ctx, query)
			if err != nil {
				errLock.Lock()
				aggregatedErr = multierror.Append(aggregatedErr, errors.WithStack(err))
				errLock.Unlock()
				return
			}

			for _, r := range clientResults {
				results <- r
			}
		}(cl)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	mergedResults := make([]se.Result, 0)
	seen := make(map[string]struct{})
	for r := range results {
		if _, exists := seen[r.URL]; exists {
			continue
		}

		mergedResults = append(mergedResults, r)
		seen[r.URL] = struct{}{}
	}

	if aggregatedErr != nil {
		return mergedResults, aggregatedErr
	}

	return mergedResults, nil
}

func NewClient(clients ...se.Client) *Client {
	return &Client{
		clients: clients,
	}
}

var _ se.Client = &Client{}
