package searx

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bornholm/websearch/pkg/search"
	"github.com/gocolly/colly"
	"github.com/pkg/errors"
)

const Name = "searx"

const instancesURL = "https://searx.space/data/instances.json"

// Bang operators understood by SearxNG, mapped to the engine name reported
// by searx.space instance statistics.
var searchEnginesOperators = map[string]string{
	"ddg": "duckduckgo",
	"go":  "google",
	"bi":  "bing",
	"br":  "brave",
	"qw":  "qwant",
}

// Client implements the search.Client interface against public SearxNG
// instances, picking a healthy one from searx.space before each search.
type Client struct {
	language string
}

type OptionFunc func(c *Client)

// WithLanguage sets the language requested from the instance.
func WithLanguage(language string) OptionFunc {
	return func(c *Client) {
		c.language = language
	}
}

func (c *Client) getInstanceURL(ctx context.Context, query string, ignored ...string) (*url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, instancesURL, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer res.Body.Close()

	decoder := json.NewDecoder(res.Body)

	var instances Instances
	if err := decoder.Decode(&instances); err != nil {
		return nil, errors.WithStack(err)
	}

	bestURL, err := pickInstance(instances, query, ignored...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	instanceURL, err := url.Parse(bestURL)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return instanceURL, nil
}

// pickInstance selects the fastest healthy instance supporting the engines
// requested through bang operators in the query.
func pickInstance(instances Instances, query string, ignored ...string) (string, error) {
	var bestInstance *Instance
	var bestURL string

	for instanceURL, inst := range instances.Instances {
		if slices.Contains(ignored, instanceURL) {
			continue
		}

		includeSearchEngine := true
		for seOperator, seName := range searchEnginesOperators {
			if strings.Contains(query, "!"+seOperator) {
				engine, included := inst.Engines[seName]
				if !included || engine.ErrorRate > 50 {
					includeSearchEngine = false
					break
				}
			}
		}
		if !includeSearchEngine {
			continue
		}

		if inst.HTTP.StatusCode != http.StatusOK || inst.NetworkType != "normal" || inst.Timing.SearchGo.SuccessPercentage < 80 {
			continue
		}

		if bestInstance == nil {
			bestURL = instanceURL
			bestInstance = &inst
			continue
		}

		if bestInstance.Timing.Search.All.Mean > inst.Timing.Search.All.Mean || len(bestInstance.Engines) < len(inst.Engines) {
			bestURL = instanceURL
			bestInstance = &inst
			continue
		}
	}

	if bestInstance == nil {
		return "", errors.New("no available instance")
	}

	return bestURL, nil
}

// Search implements the search.Client interface.
func (c *Client) Search(ctx context.Context, query string) ([]search.Result, error) {
	maxRetries := 3
	ignored := make([]string, 0)
	retries := 0
	for {
		serverURL, err := c.getInstanceURL(ctx, query, ignored...)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		results, err := c.doSearch(ctx, serverURL, query)
		if err != nil {
			if retries >= maxRetries {
				return nil, errors.WithStack(err)
			}

			retries++
			ignored = append(ignored, serverURL.String())
			time.Sleep(time.Second * time.Duration(rand.Float64()))
			continue
		}

		if len(results) == 0 {
			if retries >= maxRetries {
				return results, nil
			}

			ignored = append(ignored, serverURL.String())
			retries++
			continue
		}

		return results, nil
	}
}

func (c *Client) doSearch(ctx context.Context, serverURL *url.URL, query string) ([]search.Result, error) {
	searchURL := serverURL.JoinPath("/search")

	values := searchURL.Query()
	values.Set("q", query)
	values.Set("language", c.language)
	searchURL.RawQuery = values.Encode()

	slog.DebugContext(ctx, "executing searx search", slog.String("url", searchURL.String()))

	var results []search.Result

	collector := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36"),
	)

	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
			DualStack: true,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	})

	collector.OnHTML("html", func(h *colly.HTMLElement) {
		// Fetch the page assets as a browser would, some instances check this.
		h.DOM.Find("head > link").Each(func(i int, s *goquery.Selection) {
			assetURL := s.AttrOr("href", "")
			if strings.HasPrefix(assetURL, "/client") && strings.HasSuffix(assetURL, ".css") {
				h.Request.Visit(assetURL)
			}
		})
	})

	collector.OnHTML("body", func(h *colly.HTMLElement) {
		h.DOM.Find(".result").Each(func(i int, s *goquery.Selection) {
			link := s.Find("h3 > a[href]")

			resultURL := link.AttrOr("href", "")
			if resultURL == "" {
				return
			}

			title := link.Text()
			if title == "" {
				return
			}

			description := strings.TrimSpace(s.Find(".content").Text())
			if description == "" {
				return
			}

			results = append(results, search.Result{
				Title:       title,
				Description: description,
				URL:         resultURL,
				Source:      Name,
			})
		})
	})

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7")
		r.Headers.Set("Connection", "keep-alive")
		r.Headers.Set("Sec-Fetch-Mode", "navigate")
		r.Headers.Set("Sec-Fetch-Dest", "document")
		r.Headers.Set("sec-fetch-site", "none")
		r.Headers.Set("Pragma", "no-cache")
		r.Headers.Set("Cache-Control", "no-cache")
	})

	if err := collector.Visit(searchURL.String()); err != nil {
		return nil, errors.WithStack(err)
	}

	return results, nil
}

func NewClient(funcs ...OptionFunc) *Client {
	client := &Client{
		language: "en",
	}

	for _, fn := range funcs {
		fn(client)
	}

	return client
}

var _ search.Client = &Client{}
