package db

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	dbpkg "github.com/dtnitsch/citylink/pkg/db"
	"github.com/urfave/cli/v2"
)

func RunsAction(c *cli.Context) error {
	database, err := openStore(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	printRuns(os.Stdout, runs)
	return nil
}

func printRuns(w io.Writer, runs []dbpkg.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return
	}

	fmt.Fprintf(w, "%-6s %-20s %-8s %-8s %-10s %-10s %-10s %-30s\n",
		"ID", "Created", "Workers", "Files", "Documents", "Skipped", "Elapsed", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, r := range runs {
		skipped := 0
		for _, n := range r.Skipped {
			skipped += n
		}
		fmt.Fprintf(w, "%-6d %-20s %-8d %-8d %-10d %-10d %-10s %-30s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Workers,
			len(r.Files),
			r.Documents,
			skipped,
			r.Elapsed,
			r.OutputPath,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'citylink links <id>' to see the strongest links of a run\n")
}

// LinksAction shows a run and its top links, overall or for one category.
func LinksAction(c *cli.Context) error {
	database, err := openStore(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}
	run, err := database.GetRun(runID)
	if err != nil {
		return err
	}
	label := c.String("category")
	links, err := database.GetLinks(runID, label, c.Int("top"))
	if err != nil {
		return err
	}
	printLinks(os.Stdout, run, label, links)
	return nil
}

func printLinks(w io.Writer, run *dbpkg.Run, label string, links []dbpkg.LinkRow) {
	fmt.Fprintf(w, "Run %d (%s)\n", run.RunID, run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Entities: %d  Pairs: %d  Documents: %d/%d records\n",
		run.Entities, run.Pairs, run.Documents, run.Records)

	if len(run.Skipped) > 0 {
		reasons := make([]string, 0, len(run.Skipped))
		for reason := range run.Skipped {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		parts := make([]string, len(reasons))
		for i, reason := range reasons {
			parts[i] = fmt.Sprintf("%s=%d", reason, run.Skipped[reason])
		}
		fmt.Fprintf(w, "Skipped: %s\n", strings.Join(parts, " "))
	}

	labels := make([]string, len(run.Categories))
	for i, cat := range run.Categories {
		labels[i] = fmt.Sprintf("%s(%d)", cat.Label, cat.DocumentTotal)
	}
	fmt.Fprintf(w, "Categories: %s\n\n", strings.Join(labels, " "))

	if label == "" {
		label = "all categories"
	}
	fmt.Fprintf(w, "--- Top links: %s ---\n", label)
	if len(links) == 0 {
		fmt.Fprintln(w, "No links recorded")
		return
	}
	for i, l := range links {
		fmt.Fprintf(w, "%d. %s-%s: %d\n", i+1, l.City1, l.City2, l.Count)
	}
}
