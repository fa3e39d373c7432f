package search

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/bornholm/websearch/pkg/history"
	se "github.com/bornholm/websearch/pkg/search"
	searchenv "github.com/bornholm/websearch/pkg/search/env"
	"github.com/bornholm/websearch/pkg/search/fallback"
	"github.com/bornholm/websearch/pkg/search/filter"
	"github.com/bornholm/websearch/pkg/search/meta"
)

func Search() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the web, trying the configured providers in priority order",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "query",
				Required: true,
				Value:    "",
				Aliases:  []string{"q"},
				EnvVars:  []string{"WEBSEARCH_QUERY"},
			},
			&cli.StringFlag{
				Name:  "priority",
				Value: "",
				Usage: "Comma-separated provider priority, overrides SEARCH_PRIORITY",
			},
			&cli.BoolFlag{
				Name:  "merge",
				Usage: "Query every provider in parallel and merge the results instead of falling back",
			},
			&cli.BoolFlag{
				Name:  "continue-on-error",
				Usage: "Treat a failing provider like one without results and try the next one",
			},
			&cli.IntFlag{
				Name:  "retries",
				Value: 0,
				Usage: "Retry a failed search this many times",
			},
			&cli.StringSliceFlag{
				Name:  "allow-domain",
				Usage: "Only keep results whose host matches one of these glob patterns",
			},
			&cli.StringSliceFlag{
				Name:  "deny-domain",
				Usage: "Drop results whose host matches one of these glob patterns",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON",
			},
			&cli.StringFlag{
				Name:      "history",
				Value:     "",
				EnvVars:   []string{"WEBSEARCH_HISTORY"},
				TakesFile: true,
				Usage:     "Record results into the history index at this path",
			},
		},
		Action: func(cliCtx *cli.Context) error {
			query := cliCtx.String("query")
			ctx := cliCtx.Context

			config, err := searchenv.ParseConfig()
			if err != nil {
				return errors.Wrapf(err, "failed to load search configuration")
			}

			if priority := cliCtx.String("priority"); priority != "" {
				config.Priority = splitPriority(priority)
			}

			registry, cleanup, err := config.Registry(ctx)
			if err != nil {
				return errors.Wrapf(err, "failed to build provider registry")
			}
			defer cleanup()

			var client se.Client

			if cliCtx.Bool("merge") {
				clients := make([]se.Client, 0, len(config.Priority))
				for _, name := range config.Priority {
					if c, exists := registry[name]; exists {
						clients = append(clients, c)
					}
				}

				client = meta.NewClient(clients...)
			} else {
				var opts []fallback.OptionFunc
				if cliCtx.Bool("continue-on-error") {
					opts = append(opts, fallback.WithContinueOnError())
				}

				client = fallback.NewClient(registry, config.Priority, opts...)
			}

			if retries := cliCtx.Int("retries"); retries > 0 {
				client = se.WithRetry(client, retries, time.Second)
			}

			allowed := cliCtx.StringSlice("allow-domain")
			denied := cliCtx.StringSlice("deny-domain")
			if len(allowed) > 0 || len(denied) > 0 {
				client, err = filter.NewClient(client, allowed, denied)
				if err != nil {
					return errors.Wrapf(err, "failed to build domain filter")
				}
			}

			results, err := client.Search(ctx, query)
			if err != nil {
				return errors.Wrapf(err, "search failed")
			}

			if historyPath := cliCtx.String("history"); historyPath != "" {
				index, err := history.Open(historyPath)
				if err != nil {
					return errors.Wrapf(err, "failed to open history index")
				}
				defer index.Close()

				if err := index.Record(query, results); err != nil {
					return errors.Wrapf(err, "failed to record results")
				}

				slog.DebugContext(ctx, "results recorded", slog.String("history", historyPath), slog.Int("results", len(results)))
			}

			if cliCtx.Bool("json") {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(results); err != nil {
					return errors.WithStack(err)
				}

				return nil
			}

			fmt.Print(FormatResults(results))

			return nil
		},
	}
}

// FormatResults renders results the way they are fed to the assistant and
// printed on the terminal.
func FormatResults(results []se.Result) string {
	var sb strings.Builder

	sb.WriteString("# Search results\n\n")

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, r.Title))
		sb.WriteString(fmt.Sprintf("**URL**: %s\n", r.URL))
		if r.Source != "" {
			sb.WriteString(fmt.Sprintf("**Provider**: %s\n", r.Source))
		}
		sb.WriteString(fmt.Sprintf("**Description**:\n%s\n\n", r.Description))
	}

	return sb.String()
}

func splitPriority(priority string) []string {
	parts := strings.Split(priority, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}

	return names
}
