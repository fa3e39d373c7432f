package ask

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/bornholm/genai/llm"
	"github.com/bornholm/genai/llm/circuitbreaker"
	"github.com/bornholm/genai/llm/provider"
	llmenv "github.com/bornholm/genai/llm/provider/env"
	"github.com/bornholm/genai/llm/ratelimit"
	"github.com/bornholm/genai/llm/retry"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.yaml.in/yaml/v3"

	_ "github.com/bornholm/genai/llm/provider/all"

	"github.com/bornholm/websearch/pkg/content"
	"github.com/bornholm/websearch/pkg/scraper"
	se "github.com/bornholm/websearch/pkg/search"
	searchenv "github.com/bornholm/websearch/pkg/search/env"
	"github.com/bornholm/websearch/pkg/search/fallback"
)

const systemPrompt = `You are a research assistant. Answer the user question using the provided web search context. Cite the sources you used by their URL. If the context does not contain the answer, say so instead of guessing.`

func Ask() *cli.Command {
	return &cli.Command{
		Name:  "ask",
		Usage: "Answer a question using web search results as context",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "question",
				Required: true,
				Value:    "",
				Aliases:  []string{"q"},
				EnvVars:  []string{"WEBSEARCH_QUESTION"},
			},
			&cli.IntFlag{
				Name:    "max-sources",
				Value:   3,
				Aliases: []string{"n"},
				EnvVars: []string{"WEBSEARCH_MAX_SOURCES"},
			},
			&cli.BoolFlag{
				Name:    "fetch-content",
				EnvVars: []string{"WEBSEARCH_FETCH_CONTENT"},
				Usage:   "Scrape the source pages and give their content to the model instead of the result snippets",
			},
			&cli.StringFlag{
				Name:      "output",
				Value:     "",
				Aliases:   []string{"o"},
				EnvVars:   []string{"WEBSEARCH_OUTPUT"},
				TakesFile: true,
				Usage:     "Filename of the resulting answer, defaults to a slug of the question",
			},
		},
		Action: func(cliCtx *cli.Context) error {
			question := strings.TrimSpace(cliCtx.String("question"))
			maxSources := cliCtx.Int("max-sources")
			output := cliCtx.String("output")
			fetchContent := cliCtx.Bool("fetch-content")

			ctx, cancel := context.WithTimeout(cliCtx.Context, 10*time.Minute)
			defer cancel()

			config, err := searchenv.ParseConfig()
			if err != nil {
				return errors.Wrapf(err, "failed to load search configuration")
			}

			pageScraper, cleanup, err := config.NewScraper()
			if err != nil {
				return errors.Wrapf(err, "failed to create scraper")
			}
			defer cleanup()

			registry := config.RegistryWithScraper(ctx, pageScraper)

			// A provider outage should not prevent an answer, the remaining
			// providers are enough.
			searchClient := fallback.NewClient(registry, config.Priority, fallback.WithContinueOnError())

			slog.InfoContext(ctx, "searching the web", slog.String("question", question))

			results, err := searchClient.Search(ctx, question)
			if err != nil {
				slog.WarnContext(ctx, "search failed, answering without context", slog.Any("error", errors.WithStack(err)))
			}

			if len(results) > maxSources {
				results = results[:maxSources]
			}

			searchContext := buildContext(ctx, pageScraper, results, fetchContent)

			// Create a LLM chat completion client
			baseClient, err := provider.Create(ctx, llmenv.With("WEBSEARCH_", ".env"))
			if err != nil {
				return errors.Wrapf(err, "failed to create llm client")
			}

			// Wrap with retry logic (3 retries with 1 second base delay)
			retryClient := retry.Wrap(baseClient, time.Second, 3)

			// Wrap with rate limiting (max 30 requests per minute)
			rateLimitedClient := ratelimit.Wrap(retryClient, time.Minute/30, 1)

			// Wrap with circuit breaker (max 5 failures, 5 second reset timeout)
			resilientClient := circuitbreaker.NewClient(rateLimitedClient, 5, 5*time.Second)

			userPrompt := fmt.Sprintf("Question: %s\n\nContext:\n%s", question, searchContext)

			slog.InfoContext(ctx, "generating answer")

			response, err := resilientClient.ChatCompletion(ctx,
				llm.WithMessages(
					llm.NewMessage(llm.RoleSystem, systemPrompt),
					llm.NewMessage(llm.RoleUser, userPrompt),
				),
				llm.WithTemperature(0.7),
			)
			if err != nil {
				return errors.Wrapf(err, "failed to generate answer")
			}

			answer := response.Message().Content()

			fmt.Println(answer)

			var buff bytes.Buffer

			if _, err := io.WriteString(&buff, "---\n"); err != nil {
				return errors.WithStack(err)
			}

			encoder := yaml.NewEncoder(&buff)
			metadata := struct {
				Question string
				AskedAt  time.Time
				Sources  []string
			}{
				Question: question,
				AskedAt:  time.Now().UTC(),
				Sources:  sourceURLs(results),
			}
			if err := encoder.Encode(metadata); err != nil {
				return errors.Wrapf(err, "failed to write answer metadata")
			}

			if _, err := io.WriteString(&buff, "---\n\n"); err != nil {
				return errors.WithStack(err)
			}

			if _, err := io.WriteString(&buff, answer); err != nil {
				return errors.WithStack(err)
			}

			if len(results) > 0 {
				if _, err := io.WriteString(&buff, "\n\n---\n\n**Sources**\n\n"); err != nil {
					return errors.WithStack(err)
				}

				for _, r := range results {
					if _, err := io.WriteString(&buff, fmt.Sprintf("- [%s](%s)\n", r.Title, r.URL)); err != nil {
						return errors.WithStack(err)
					}
				}
			}

			if output == "" {
				output = slug.Make(question) + ".md"
			}

			if err := os.WriteFile(output, buff.Bytes(), 0644); err != nil {
				return errors.Wrapf(err, "failed to write answer")
			}

			slog.InfoContext(ctx, "answer written", slog.String("output", output))

			return nil
		},
	}
}

const maxPageContentLength = 4000

// buildContext renders the search results as the context block given to the
// model, one bullet per source.
func buildContext(ctx context.Context, pageScraper scraper.Scraper, results []se.Result, fetchContent bool) string {
	if len(results) == 0 {
		return "No search results found"
	}

	var sb strings.Builder

	for _, r := range results {
		body := r.Description

		if fetchContent {
			markdown, err := content.FetchMarkdown(ctx, pageScraper, r.URL)
			if err != nil {
				slog.WarnContext(ctx, "could not fetch page content, falling back to the snippet", slog.String("url", r.URL), slog.Any("error", errors.WithStack(err)))
			} else {
				if len(markdown) > maxPageContentLength {
					markdown = markdown[:maxPageContentLength]
				}

				body = markdown
			}
		}

		sb.WriteString(fmt.Sprintf("• %s\n  %s\n  Source: %s\n", r.Title, body, r.URL))
	}

	return sb.String()
}

func sourceURLs(results []se.Result) []string {
	urls := make([]string, 0, len(results))
	for _, r := range results {
		urls = append(urls, r.URL)
	}

	return urls
}
