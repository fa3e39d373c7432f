package serpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/bornholm/websearch/pkg/search"
	"github.com/pkg/errors"
)

const Name = "serpapi"

const defaultBaseURL = "https://serpapi.com"

// Client implements the search.Client interface using the SerpAPI search
// endpoint with the google engine.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type searchResponse struct {
	Error          string          `json:"error"`
	OrganicResults []organicResult `json:"organic_results"`
}

type organicResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
}

// Search implements the search.Client interface.
func (c *Client) Search(ctx context.Context, query string) ([]search.Result, error) {
	searchURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	searchURL = searchURL.JoinPath("/search")

	values := searchURL.Query()
	values.Set("engine", "google")
	values.Set("q", query)
	values.Set("api_key", c.apiKey)
	searchURL.RawQuery = values.Encode()

	slog.DebugContext(ctx, "executing serpapi search", slog.String("query", query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, err := io.ReadAll(io.LimitReader(res.Body, 4e+6))
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return nil, errors.Errorf("unexpected response http status %d (%s):\n%s", res.StatusCode, res.Status, body)
	}

	var response searchResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, errors.WithStack(err)
	}

	if response.Error != "" {
		return nil, errors.Errorf("serpapi returned an error: %s", response.Error)
	}

	var results []search.Result
	for _, item := range response.OrganicResults {
		results = append(results, search.Result{
			Title:       item.Title,
			URL:         item.Link,
			Description: item.Snippet,
			Source:      Name,
		})
	}

	return results, nil
}

// NewClient creates a new SerpAPI client for the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
}

var _ search.Client = &Client{}
