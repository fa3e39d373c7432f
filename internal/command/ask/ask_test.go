package ask

import (
	"context"
	"strings"
	"testing"

	se "github.com/bornholm/websearch/pkg/search"
)

func TestBuildContext(t *testing.T) {
	results := []se.Result{
		{Title: "The Go Programming Language", URL: "https://go.dev/", Description: "Go is an open source programming language.", Source: "google"},
	}

	searchContext := buildContext(context.Background(), nil, results, false)

	for _, expected := range []string{"The Go Programming Language", "Go is an open source programming language.", "Source: https://go.dev/"} {
		if !strings.Contains(searchContext, expected) {
			t.Errorf("expected context to contain %q, got:\n%s", expected, searchContext)
		}
	}
}

func TestBuildContextWithoutResults(t *testing.T) {
	searchContext := buildContext(context.Background(), nil, nil, false)

	if searchContext != "No search results found" {
		t.Errorf("unexpected context %q", searchContext)
	}
}
