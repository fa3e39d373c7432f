package meta

import (
	"context"
	"testing"

	se "github.com/bornholm/websearch/pkg/search"
	"github.com/pkg/errors"
)

type stubClient struct {
	results []se.Result
	err     error
}

func (c *stubClient) Search(ctx context.Context, query string) ([]se.Result, error) {
	if c.err != nil {
		return nil, errors.WithStack(c.err)
	}

	return c.results, nil
}

var _ se.Client = &stubClient{}

func TestMergeDeduplicatesByURL(t *testing.T) {
	a := &stubClient{results: []se.Result{
		{Title: "shared", URL: "https://example.net/shared", Source: "a"},
		{Title: "only a", URL: "https://example.net/a", Source: "a"},
	}}
	b := &stubClient{results: []se.Result{
		{Title: "shared", URL: "https://example.net/shared", Source: "b"},
		{Title: "only b", URL: "https://example.net/b", Source: "b"},
	}}

	client := NewClient(a, b)

	results, err := client.Search(context.Background(), "golang")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if len(results) != 3 {
		t.Errorf("expected 3 deduplicated results, got %d: %v", len(results), results)
	}

	seen := make(map[string]int)
	for _, r := range results {
		seen[r.URL]++
	}

	for url, count := range seen {
		if count > 1 {
			t.Errorf("url %q appears %d times", url, count)
		}
	}
}

func TestMergeKeepsPartialResultsOnFailure(t *testing.T) {
	a := &stubClient{results: []se.Result{{Title: "a", URL: "https://example.net/a", Source: "a"}}}
	b := &stubClient{err: errors.New("unavailable")}

	client := NewClient(a, b)

	results, err := client.Search(context.Background(), "golang")
	if err == nil {
		t.Fatal("expected the failing provider error to be reported")
	}

	if len(results) != 1 {
		t.Errorf("expected the working provider results to be kept, got %v", results)
	}
}
