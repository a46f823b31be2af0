package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/citylink/internal/common"
	"github.com/dtnitsch/citylink/internal/db"
	"github.com/dtnitsch/citylink/internal/expand"
	"github.com/dtnitsch/citylink/internal/run"
	"github.com/dtnitsch/citylink/pkg/help"
)

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "citylink",
		Usage: "Count how often pairs of cities are mentioned together, per topic category",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
				EnvVars: []string{"CITYLINK_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "SQLite run store (default results/citylink.db, empty disables recording)",
				EnvVars: []string{"CITYLINK_DB"},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors",
				EnvVars: []string{"CITYLINK_QUIET"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Log debug records, including every skipped record",
				EnvVars: []string{"CITYLINK_VERBOSE"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   common.LogFormatJSON,
				Usage:   "Log format: json or text",
				EnvVars: []string{"CITYLINK_LOG_FORMAT"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "coldstart",
				Usage: "Print a YAML quick start with an example config",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprint(c.App.Writer, help.ColdstartYAML)
					return err
				},
			},
			{
				Name:   "run",
				Usage:  "Aggregate city links over the partition files and write the CSV report",
				Action: run.RunAction,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "categories", Usage: "Category labels, in keyword row order", EnvVars: []string{"CITYLINK_CATEGORIES"}},
					&cli.StringFlag{Name: "cities", Usage: "City list CSV (first column)", EnvVars: []string{"CITYLINK_CITIES"}},
					&cli.StringFlag{Name: "stopwords", Usage: "Stopword list, one per line", EnvVars: []string{"CITYLINK_STOPWORDS"}},
					&cli.StringFlag{Name: "dict", Usage: "Jieba dictionary; whitespace splitting without it", EnvVars: []string{"CITYLINK_DICT"}},
					&cli.StringFlag{Name: "keywords", Usage: "Expanded keywords CSV, one row per category", EnvVars: []string{"CITYLINK_KEYWORDS"}},
					&cli.StringFlag{Name: "input-dir", Usage: "Directory of partition files", EnvVars: []string{"CITYLINK_INPUT_DIR"}},
					&cli.StringFlag{Name: "pattern", Usage: "Partition file glob (default part-*)", EnvVars: []string{"CITYLINK_PATTERN"}},
					&cli.IntFlag{Name: "start", Usage: "First file index of the sorted list"},
					&cli.IntFlag{Name: "end", Usage: "End file index (exclusive, 0 = all)"},
					&cli.IntFlag{Name: "step", Usage: "Take every step-th file"},
					&cli.StringFlag{Name: "format", Usage: "Input format: lines or html"},
					&cli.StringSliceFlag{Name: "languages", Usage: "Keep only records in these ISO 639-1 languages", EnvVars: []string{"CITYLINK_LANGUAGES"}},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: fmt.Sprintf("Parallel workers (default %d)", runtime.NumCPU()), EnvVars: []string{"CITYLINK_WORKERS"}},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "CSV report path", EnvVars: []string{"CITYLINK_OUTPUT"}},
					&cli.BoolFlag{Name: "omit-zero", Usage: "Leave pairs with no mentions out of the report"},
					&cli.StringFlag{Name: "manifest", Usage: "YAML run manifest path (empty disables it)"},
				},
			},
			{
				Name:   "expand",
				Usage:  "Expand seed keywords with word embeddings",
				Action: expand.ExpandAction,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "categories", Usage: "Category labels, in seed column order", EnvVars: []string{"CITYLINK_CATEGORIES"}},
					&cli.StringFlag{Name: "seed-keywords", Usage: "Seed keywords CSV, one column per category"},
					&cli.StringFlag{Name: "keywords", Usage: "Expanded keywords CSV to write", EnvVars: []string{"CITYLINK_KEYWORDS"}},
					&cli.StringFlag{Name: "embedding", Usage: "word2vec text file", EnvVars: []string{"CITYLINK_EMBEDDING"}},
					&cli.Float64Flag{Name: "threshold", Usage: "Keep neighbours above this cosine similarity (default 0.8)"},
					&cli.IntFlag{Name: "topn", Usage: "Neighbours considered per seed (default 10)"},
					&cli.IntFlag{Name: "vocab-limit", Usage: "Read at most this many embedding words"},
					&cli.BoolFlag{Name: "force", Usage: "Ignore the expansion cache"},
				},
			},
			{
				Name:   "runs",
				Usage:  "List recorded runs",
				Action: db.RunsAction,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "Number of runs to show (0 = all)"},
				},
			},
			{
				Name:      "links",
				Usage:     "Show the strongest links of a run (latest by default)",
				ArgsUsage: "[run-id]",
				Action:    db.LinksAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Usage: "Rank by one category label instead of the total"},
					&cli.IntFlag{Name: "top", Value: 20, Usage: "Number of links to show (0 = all)"},
				},
			},
		},
	}
}
