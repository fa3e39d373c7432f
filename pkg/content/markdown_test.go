package content

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/bornholm/websearch/pkg/scraper"
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

func TestFetchMarkdown(t *testing.T) {
	stub := &stubScraper{body: `
<html><body>
	<h1>Title</h1>
	<p>Some <strong>important</strong> text.</p>
	<a href="https://go.dev/">a link</a>
</body></html>
`}

	markdown, err := FetchMarkdown(context.Background(), stub, "https://example.net/page")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if !strings.Contains(markdown, "# Title") {
		t.Errorf("expected a markdown heading, got:\n%s", markdown)
	}

	if !strings.Contains(markdown, "**important**") {
		t.Errorf("expected bold text to be converted, got:\n%s", markdown)
	}

	if !strings.Contains(markdown, "https://go.dev/") {
		t.Errorf("expected the link target to be kept, got:\n%s", markdown)
	}
}
