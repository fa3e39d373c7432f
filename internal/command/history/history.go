package history

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/bornholm/websearch/pkg/history"
)

func History() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Search previously recorded results without touching the network",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "query",
				Required: true,
				Value:    "",
				Aliases:  []string{"q"},
				EnvVars:  []string{"WEBSEARCH_QUERY"},
			},
			&cli.StringFlag{
				Name:      "history",
				Required:  true,
				Value:     "",
				EnvVars:   []string{"WEBSEARCH_HISTORY"},
				TakesFile: true,
				Usage:     "Path of the history index",
			},
			&cli.IntFlag{
				Name:  "limit",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print entries as JSON",
			},
		},
		Action: func(cliCtx *cli.Context) error {
			query := cliCtx.String("query")
			historyPath := cliCtx.String("history")
			limit := cliCtx.Int("limit")

			index, err := history.Open(historyPath)
			if err != nil {
				return errors.Wrapf(err, "failed to open history index")
			}
			defer index.Close()

			entries, err := index.Search(query, limit)
			if err != nil {
				return errors.Wrapf(err, "failed to search history")
			}

			if cliCtx.Bool("json") {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(entries); err != nil {
					return errors.WithStack(err)
				}

				return nil
			}

			fmt.Print(formatEntries(entries))

			return nil
		},
	}
}

func formatEntries(entries []history.Entry) string {
	var sb strings.Builder

	sb.WriteString("# History\n\n")

	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, e.Title))
		sb.WriteString(fmt.Sprintf("**URL**: %s\n", e.URL))
		sb.WriteString(fmt.Sprintf("**Query**: %s\n", e.Query))
		if e.Source != "" {
			sb.WriteString(fmt.Sprintf("**Provider**: %s\n", e.Source))
		}
		if !e.RecordedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("**Recorded**: %s\n", e.RecordedAt.Format("2006-01-02 15:04:05")))
		}
		sb.WriteString(fmt.Sprintf("**Description**:\n%s\n\n", e.Description))
	}

	return sb.String()
}
