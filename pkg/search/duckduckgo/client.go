package duckduckgo

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bornholm/websearch/pkg/scraper"
	"github.com/bornholm/websearch/pkg/search"
	"github.com/pkg/errors"
)

const Name = "duckduckgo"

// Client implements the search.Client interface by scraping the DuckDuckGo
// HTML endpoint.
type Client struct {
	scraper scraper.Scraper
}

// Search implements the search.Client interface.
func (c *Client) Search(ctx context.Context, query string) ([]search.Result, error) {
	searchURL := &url.URL{
		Scheme: "https",
		Host:   "duckduckgo.com",
		Path:   "/html/",
	}

	values := searchURL.Query()
	values.Set("q", query)
	searchURL.RawQuery = values.Encode()

	slog.DebugContext(ctx, "scraping duckduckgo results", slog.String("url", searchURL.String()))

	body, err := c.scraper.Get(ctx, searchURL.String())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	captcha := doc.Find("#challenge-form")
	if captcha.Length() > 0 {
		return nil, errors.WithStack(ErrCaptcha)
	}

	resultElements := doc.Find(".result")
	if resultElements.Length() == 0 {
		return nil, errors.Errorf("unexpected result:\n%s", doc.Text())
	}

	var results []search.Result

	resultElements.Each(func(i int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find(".result__title").Text())
		if title == "" {
			return
		}

		rawDDGLink := s.Find(".result__a").AttrOr("href", "")
		if rawDDGLink == "" {
			return
		}

		ddgLink, err := url.Parse(rawDDGLink)
		if err != nil {
			return
		}

		snippet := strings.TrimSpace(s.Find(".result__snippet").Text())
		if snippet == "" {
			return
		}

		results = append(results, search.Result{
			Title:       title,
			Description: snippet,
			URL:         ddgLink.Query().Get("uddg"),
			Source:      Name,
		})
	})

	return results, nil
}

func NewClient(scraper scraper.Scraper) *Client {
	return &Client{
		scraper: scraper,
	}
}

var _ search.Client = &Client{}
