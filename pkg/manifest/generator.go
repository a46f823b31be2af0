package manifest

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/citylink/pkg/mapreduce"
	"github.com/dtnitsch/citylink/pkg/storage"
)

// RunInfo is everything the run action knows once aggregation and export
// have finished. It is passed in to keep this package free of CLI types.
type RunInfo struct {
	RunID      int64
	Workers    int
	Files      []string
	Labels     []string
	Result     *mapreduce.Result
	OutputPath string
	OutputRows int
	Elapsed    time.Duration
}

// Build assembles the manifest for a run, with the top links of every
// category.
func Build(info RunInfo, topN int) (*RunManifest, error) {
	table := info.Result.Table
	stats := info.Result.Stats
	if len(info.Labels) != table.N() {
		return nil, fmt.Errorf("manifest has %d labels for %d categories", len(info.Labels), table.N())
	}

	m := &RunManifest{
		GeneratedAt: time.Now().Format(time.RFC3339),
		RunID:       info.RunID,
		Workers:     info.Workers,
		Files:       info.Files,
		Entities:    table.Universe().Len(),
		Pairs:       table.Len(),
		Records:     stats.Records,
		Documents:   stats.Documents,
		PairUpdates: stats.PairUpdates,
		Skipped:     stats.Skipped,
		Output:      OutputSummary{Path: info.OutputPath, Rows: info.OutputRows},
		Elapsed:     info.Elapsed.Round(time.Millisecond).String(),
	}

	linkTotals := table.Totals()
	for i, label := range info.Labels {
		summary := CategorySummary{
			Label:     label,
			LinkTotal: linkTotals[i],
		}
		if i < len(stats.Frequency) {
			summary.DocumentTotal = stats.Frequency[i]
		}
		links, err := mapreduce.TopLinks(table, topN, i)
		if err != nil {
			return nil, err
		}
		for _, l := range links {
			summary.TopLinks = append(summary.TopLinks, l.String())
		}
		m.Categories = append(m.Categories, summary)
	}
	return m, nil
}

// Generate builds the manifest and saves it as YAML at path, filling in the
// size of the CSV report from storage. It returns the manifest written.
func Generate(info RunInfo, topN int, path string, s *storage.Storage) (*RunManifest, error) {
	m, err := Build(info, topN)
	if err != nil {
		return nil, err
	}
	if info.OutputPath != "" {
		if stats, err := s.GetFileStats(info.OutputPath); err == nil {
			m.Output.SizeBytes = stats.SizeBytes
		}
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("error marshalling manifest: %w", err)
	}
	if err := s.SaveFile(path, data); err != nil {
		return nil, fmt.Errorf("error saving manifest: %w", err)
	}
	return m, nil
}
