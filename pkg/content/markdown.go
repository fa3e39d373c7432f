package content

import (
	"context"
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/bornholm/websearch/pkg/scraper"
	"github.com/pkg/errors"
)

// FetchMarkdown scrapes the given url and returns its body converted to
// markdown.
func FetchMarkdown(ctx context.Context, pageScraper scraper.Scraper, url string) (string, error) {
	slog.DebugContext(ctx, "scraping page", slog.String("url", url))

	res, err := pageScraper.Get(ctx, url)
	if err != nil {
		return "", errors.WithStack(err)
	}

	defer res.Close()

	doc, err := goquery.NewDocumentFromReader(res)
	if err != nil {
		return "", errors.WithStack(err)
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	html, err := doc.Find("body").Html()
	if err != nil {
		return "", errors.WithStack(err)
	}

	markdown, err := conv.ConvertString(html)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return strings.TrimSpace(markdown), nil
}
