package env

import (
	"context"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/bornholm/websearch/pkg/scraper"
	chromedpscraper "github.com/bornholm/websearch/pkg/scraper/chromedp"
	surfscraper "github.com/bornholm/websearch/pkg/scraper/surf"
	"github.com/bornholm/websearch/pkg/search"
	"github.com/bornholm/websearch/pkg/search/duckduckgo"
	"github.com/bornholm/websearch/pkg/search/fallback"
	"github.com/bornholm/websearch/pkg/search/google"
	"github.com/bornholm/websearch/pkg/search/searx"
	"github.com/bornholm/websearch/pkg/search/serpapi"
)

// Config is the environment-derived search configuration. Everything the
// fallback client needs is resolved here once; the client itself never
// touches the process environment.
type Config struct {
	Priority     []string `env:"SEARCH_PRIORITY" envSeparator:"," envDefault:"google,serpapi,duckduckgo"`
	Scraper      string   `env:"SEARCH_SCRAPER" envDefault:"surf"`
	GoogleAPIKey string   `env:"GOOGLE_API_KEY"`
	GoogleCSEID  string   `env:"GOOGLE_CSE_ID"`
	SerpAPIKey   string   `env:"SERPAPI_API_KEY"`
}

// ParseConfig loads an optional .env file then parses the configuration
// from the environment.
func ParseConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "could not load .env file")
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, errors.WithStack(err)
	}

	return config, nil
}

// NewScraper returns the scraper backend selected by the configuration and
// a cleanup function to call once done with it.
func (c *Config) NewScraper() (scraper.Scraper, func(), error) {
	switch c.Scraper {
	case "http":
		return scraper.DefaultScraper(), func() {}, nil
	case "surf":
		return surfscraper.NewScraper(), func() {}, nil
	case "chromedp":
		chromeScraper, err := chromedpscraper.NewScraper(true)
		if err != nil {
			return nil, nil, errors.WithStack(err)
		}

		return chromeScraper, chromeScraper.Close, nil
	default:
		return nil, nil, errors.Errorf("unknown scraper backend '%s'", c.Scraper)
	}
}

// Registry builds the provider registry. Providers with missing credentials
// are left out; the fallback client will then skip their names.
func (c *Config) Registry(ctx context.Context) (map[string]search.Client, func(), error) {
	pageScraper, cleanup, err := c.NewScraper()
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	return c.RegistryWithScraper(ctx, pageScraper), cleanup, nil
}

// RegistryWithScraper builds the provider registry on top of an already
// configured scraper.
func (c *Config) RegistryWithScraper(ctx context.Context, pageScraper scraper.Scraper) map[string]search.Client {
	registry := map[string]search.Client{
		duckduckgo.Name: duckduckgo.NewClient(pageScraper),
		searx.Name:      searx.NewClient(),
	}

	if c.GoogleAPIKey != "" && c.GoogleCSEID != "" {
		registry[google.Name] = google.NewClient(c.GoogleAPIKey, c.GoogleCSEID)
	} else {
		slog.DebugContext(ctx, "google credentials missing, provider not registered")
	}

	if c.SerpAPIKey != "" {
		registry[serpapi.Name] = serpapi.NewClient(c.SerpAPIKey)
	} else {
		slog.DebugContext(ctx, "serpapi credentials missing, provider not registered")
	}

	return registry
}

// FromEnv builds a ready to use fallback client from the environment.
func FromEnv(ctx context.Context, funcs ...fallback.OptionFunc) (*fallback.Client, func(), error) {
	config, err := ParseConfig()
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	registry, cleanup, err := config.Registry(ctx)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	return fallback.NewClient(registry, config.Priority, funcs...), cleanup, nil
}
