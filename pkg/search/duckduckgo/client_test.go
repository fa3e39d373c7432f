package duckduckgo

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/bornholm/websearch/pkg/scraper"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

type stubScraper struct {
	body string
}

func (s *stubScraper) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func (s *stubScraper) Check(ctx context.Context, url string) (bool, error) {
	return true, nil
}

var _ scraper.Scraper = &stubScraper{}

const resultsPage = `
<html><body>
	<div class="result">
		<h2 class="result__title"><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F">The Go Programming Language</a></h2>
		<a class="result__snippet">Go is an open source programming language.</a>
	</div>
	<div class="result">
		<h2 class="result__title"><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fdoc%2F">Documentation - The Go Programming Language</a></h2>
		<a class="result__snippet">Official documentation for the Go programming language.</a>
	</div>
</body></html>
`

const captchaPage = `
<html><body>
	<form id="challenge-form"></form>
</body></html>
`

func TestClient(t *testing.T) {
	client := NewClient(&stubScraper{body: resultsPage})

	ctx := context.Background()

	results, err := client.Search(ctx, "golang")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	spew.Dump(results)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].URL != "https://go.dev/" {
		t.Errorf("expected the uddg redirect target to be extracted, got %q", results[0].URL)
	}

	for _, r := range results {
		if r.Source != Name {
			t.Errorf("expected source %q, got %q", Name, r.Source)
		}
	}
}

func TestClientCaptcha(t *testing.T) {
	client := NewClient(&stubScraper{body: captchaPage})

	ctx := context.Background()

	if _, err := client.Search(ctx, "golang"); !errors.Is(err, ErrCaptcha) {
		t.Fatalf("expected ErrCaptcha, got %v", err)
	}
}
