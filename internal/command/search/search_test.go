package search

import (
	"strings"
	"testing"

	se "github.com/bornholm/websearch/pkg/search"
)

func TestSplitPriority(t *testing.T) {
	names := splitPriority(" google, serpapi ,,duckduckgo ")

	expected := []string{"google", "serpapi", "duckduckgo"}
	if len(names) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}

	for i, name := range expected {
		if names[i] != name {
			t.Errorf("expected %q at position %d, got %q", name, i, names[i])
		}
	}
}

func TestFormatResults(t *testing.T) {
	formatted := FormatResults([]se.Result{
		{Title: "The Go Programming Language", URL: "https://go.dev/", Description: "Go is an open source programming language.", Source: "google"},
	})

	for _, expected := range []string{"## 1. The Go Programming Language", "https://go.dev/", "**Provider**: google"} {
		if !strings.Contains(formatted, expected) {
			t.Errorf("expected output to contain %q, got:\n%s", expected, formatted)
		}
	}
}
