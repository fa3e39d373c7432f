package scraper

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
)

func TestHTTPScraperGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	scraper := NewHTTPScraper(server.Client())

	body, err := scraper.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if len(data) == 0 {
		t.Error("expected a non-empty body")
	}
}

func TestHTTPScraperGetErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	scraper := NewHTTPScraper(server.Client())

	if _, err := scraper.Get(context.Background(), server.URL); err == nil {
		t.Fatal("expected an error for a 403 response")
	}
}

func TestHTTPScraperCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	scraper := NewHTTPScraper(server.Client())

	ok, err := scraper.Check(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if !ok {
		t.Error("expected the url to be reachable")
	}

	ok, err = scraper.Check(context.Background(), server.URL+"/missing")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if ok {
		t.Error("expected a 404 to be reported as unreachable")
	}
}
