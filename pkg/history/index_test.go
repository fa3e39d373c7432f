package history

import (
	"testing"

	"github.com/bornholm/websearch/pkg/search"
	"github.com/pkg/errors"
)

func TestRecordAndSearch(t *testing.T) {
	index, err := OpenMemOnly()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}
	defer index.Close()

	results := []search.Result{
		{Title: "The Go Programming Language", URL: "https://go.dev/", Description: "Go is an open source programming language.", Source: "google"},
		{Title: "Rust Programming Language", URL: "https://www.rust-lang.org/", Description: "A language empowering everyone.", Source: "google"},
	}

	if err := index.Record("programming languages", results); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	count, err := index.Count()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if count != 2 {
		t.Errorf("expected 2 recorded entries, got %d", count)
	}

	entries, err := index.Search("go", 10)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if len(entries) == 0 {
		t.Fatal("expected at least one matching entry")
	}

	if entries[0].URL != "https://go.dev/" {
		t.Errorf("expected the go.dev entry to match best, got %q", entries[0].URL)
	}

	if entries[0].Query != "programming languages" {
		t.Errorf("expected the originating query to be stored, got %q", entries[0].Query)
	}
}

func TestRecordOverwritesDuplicates(t *testing.T) {
	index, err := OpenMemOnly()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}
	defer index.Close()

	result := []search.Result{{Title: "The Go Programming Language", URL: "https://go.dev/", Description: "Go.", Source: "google"}}

	if err := index.Record("golang", result); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := index.Record("golang", result); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	count, err := index.Count()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if count != 1 {
		t.Errorf("expected the duplicate to be overwritten, got %d entries", count)
	}
}
