package serpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

func TestClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("engine"); got != "google" {
			t.Errorf("expected engine=google, got %q", got)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("expected the api key to be forwarded, got %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "golang" {
			t.Errorf("expected the query to be forwarded, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"organic_results": [
				{"position": 1, "title": "The Go Programming Language", "link": "https://go.dev/", "snippet": "Go is an open source programming language."},
				{"position": 2, "title": "Go (programming language) - Wikipedia", "link": "https://en.wikipedia.org/wiki/Go_(programming_language)", "snippet": "Go is a statically typed language."}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key")
	client.baseURL = server.URL

	results, err := client.Search(context.Background(), "golang")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	spew.Dump(results)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].URL != "https://go.dev/" {
		t.Errorf("unexpected first result url %q", results[0].URL)
	}

	for _, r := range results {
		if r.Source != Name {
			t.Errorf("expected source %q, got %q", Name, r.Source)
		}
	}
}

func TestClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error": "Invalid API key."}`))
	}))
	defer server.Close()

	client := NewClient("bad-key")
	client.baseURL = server.URL

	if _, err := client.Search(context.Background(), "golang"); err == nil {
		t.Fatal("expected the api error to be returned")
	}
}

func TestClientEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organic_results": []}`))
	}))
	defer server.Close()

	client := NewClient("test-key")
	client.baseURL = server.URL

	results, err := client.Search(context.Background(), "xyzzy")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}
