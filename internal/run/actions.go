package run

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dtnitsch/citylink/internal/common"
	"github.com/dtnitsch/citylink/models"
	"github.com/dtnitsch/citylink/pkg/analytics"
	"github.com/dtnitsch/citylink/pkg/category"
	"github.com/dtnitsch/citylink/pkg/db"
	"github.com/dtnitsch/citylink/pkg/detector"
	"github.com/dtnitsch/citylink/pkg/export"
	"github.com/dtnitsch/citylink/pkg/manifest"
	"github.com/dtnitsch/citylink/pkg/mapreduce"
	"github.com/dtnitsch/citylink/pkg/segment"
	"github.com/dtnitsch/citylink/pkg/source"
	"github.com/dtnitsch/citylink/pkg/storage"
	"github.com/dtnitsch/citylink/pkg/universe"
	"github.com/urfave/cli/v2"
)

// Summary is printed to stdout when a run finishes.
type Summary struct {
	RunID        int64          `json:"run_id,omitempty"`
	Files        int            `json:"files"`
	Workers      int            `json:"workers"`
	Entities     int            `json:"entities"`
	Pairs        int            `json:"pairs"`
	Records      int            `json:"records"`
	Documents    int            `json:"documents"`
	Skipped      map[string]int `json:"skipped,omitempty"`
	OutputPath   string         `json:"output_path"`
	OutputRows   int            `json:"output_rows"`
	ManifestPath string         `json:"manifest_path,omitempty"`
	Elapsed      string         `json:"elapsed"`
}

func RunAction(c *cli.Context) error {
	logger := common.LoggerFromContext(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	summary, err := Execute(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	return common.PrintJSON(os.Stdout, summary)
}

// Execute performs a full aggregation run described by cfg: load inputs,
// aggregate, write the CSV report, then record the run in the store and the
// manifest.
func Execute(ctx context.Context, cfg *models.Config, logger *slog.Logger) (*Summary, error) {
	start := time.Now()
	s := &storage.Storage{}

	u, err := loadUniverse(s, cfg.CitiesPath)
	if err != nil {
		return nil, err
	}
	matcher, err := loadMatcher(s, cfg)
	if err != nil {
		return nil, err
	}
	pipeline, err := newPipeline(s, cfg, u, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded inputs", "entities", u.Len(), "pairs", u.PairCount(), "categories", matcher.N())

	files, err := source.SelectFiles(cfg.Input.Dir, cfg.Input.Pattern, cfg.Input.Start, cfg.Input.End, cfg.Input.Step)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Warn("No partition files matched, the report will be all zero", "dir", cfg.Input.Dir, "pattern", cfg.Input.Pattern)
	}

	result, err := aggregate(ctx, cfg, u, matcher, pipeline, files, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Aggregation finished", "documents", result.Stats.Documents, "skipped", result.Stats.SkippedTotal(), "pair_updates", result.Stats.PairUpdates)

	exporter := &export.Exporter{Labels: matcher.Labels(), OmitZero: cfg.OmitZero}
	var rows int
	err = s.WriteFile(cfg.OutputPath, func(w io.Writer) error {
		var werr error
		rows, werr = exporter.WriteCSV(w, result.Table)
		return werr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export results: %w", err)
	}
	logger.Info("Wrote link report", "path", cfg.OutputPath, "rows", rows)

	summary := &Summary{
		Files:      len(files),
		Workers:    cfg.WorkerCount,
		Entities:   u.Len(),
		Pairs:      u.PairCount(),
		Records:    result.Stats.Records,
		Documents:  result.Stats.Documents,
		Skipped:    result.Stats.Skipped,
		OutputPath: cfg.OutputPath,
		OutputRows: rows,
	}

	// The report is already on disk; store and manifest failures are logged
	// and do not fail the run.
	if cfg.DBPath != "" {
		runID, err := saveRun(cfg, files, matcher.Labels(), result, time.Since(start))
		if err != nil {
			logger.Warn("Failed to record run in database", "db", cfg.DBPath, "error", err)
		} else {
			summary.RunID = runID
			logger.Info("Recorded run", "run_id", runID, "db", cfg.DBPath)
		}
	}

	summary.Elapsed = time.Since(start).Round(time.Millisecond).String()
	if cfg.ManifestPath != "" {
		info := manifest.RunInfo{
			RunID:      summary.RunID,
			Workers:    cfg.WorkerCount,
			Files:      files,
			Labels:     matcher.Labels(),
			Result:     result,
			OutputPath: cfg.OutputPath,
			OutputRows: rows,
			Elapsed:    time.Since(start),
		}
		if _, err := manifest.Generate(info, cfg.TopLinks, cfg.ManifestPath, s); err != nil {
			logger.Warn("Failed to write manifest", "path", cfg.ManifestPath, "error", err)
		} else {
			summary.ManifestPath = cfg.ManifestPath
		}
	}
	return summary, nil
}

func aggregate(ctx context.Context, cfg *models.Config, u *universe.Universe, m *category.Matcher, pipeline *source.Pipeline, files []string, logger *slog.Logger) (*mapreduce.Result, error) {
	if cfg.WorkerCount <= 1 {
		logger.Info("Starting serial aggregation", "files", len(files))
		src := source.NewFileSource(files, cfg.Input.Format, pipeline)
		return mapreduce.NewSerial(u, m, logger).Run(ctx, src)
	}

	groups := source.StripeFiles(files, cfg.WorkerCount)
	sources := make([]source.Source, len(groups))
	for i, group := range groups {
		sources[i] = source.NewFileSource(group, cfg.Input.Format, pipeline)
	}
	agg := &mapreduce.Partitioned{
		Universe: u,
		Matcher:  m,
		Workers:  cfg.WorkerCount,
		Tree:     len(sources) > 2,
		Logger:   logger,
	}
	return agg.Run(ctx, sources)
}

func loadUniverse(s *storage.Storage, path string) (*universe.Universe, error) {
	f, err := s.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cities list: %w", err)
	}
	defer f.Close()
	u, err := universe.LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load cities from %s: %w", path, err)
	}
	return u, nil
}

func loadMatcher(s *storage.Storage, cfg *models.Config) (*category.Matcher, error) {
	f, err := s.Open(cfg.Keywords.ExpandedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open expanded keywords (run 'citylink expand' first): %w", err)
	}
	defer f.Close()
	rows, err := category.LoadExpandedCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load expanded keywords: %w", err)
	}
	set, err := category.NewKeywordSet(cfg.Categories, rows)
	if err != nil {
		return nil, err
	}
	return category.NewMatcher(set), nil
}

func newPipeline(s *storage.Storage, cfg *models.Config, u *universe.Universe, logger *slog.Logger) (*source.Pipeline, error) {
	p := &source.Pipeline{Universe: u}

	if cfg.StopwordsPath != "" {
		f, err := s.Open(cfg.StopwordsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open stopwords: %w", err)
		}
		defer f.Close()
		p.Stopwords, err = analytics.LoadStopwords(f)
		if err != nil {
			return nil, fmt.Errorf("failed to load stopwords: %w", err)
		}
	}

	if cfg.DictPath != "" {
		jieba, err := segment.NewJieba(cfg.DictPath, false)
		if err != nil {
			return nil, err
		}
		p.Segmenter = jieba
	} else {
		logger.Warn("No segmentation dictionary configured, splitting on whitespace")
		p.Segmenter = segment.Whitespace{}
	}

	if len(cfg.Input.Languages) > 0 {
		filter, err := detector.NewLanguageFilter(cfg.Input.Languages)
		if err != nil {
			return nil, err
		}
		p.Languages = filter
	}
	return p, nil
}

func saveRun(cfg *models.Config, files, labels []string, result *mapreduce.Result, elapsed time.Duration) (int64, error) {
	store, err := db.Open(cfg.DBPath)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	configHash, err := common.FileHash(cfg.CitiesPath, cfg.Keywords.ExpandedPath)
	if err != nil {
		return 0, err
	}

	run := &db.Run{
		ConfigHash:  configHash,
		InputDir:    cfg.Input.Dir,
		Files:       files,
		Workers:     cfg.WorkerCount,
		Entities:    result.Table.Universe().Len(),
		Pairs:       result.Table.Len(),
		Records:     result.Stats.Records,
		Documents:   result.Stats.Documents,
		PairUpdates: result.Stats.PairUpdates,
		Skipped:     result.Stats.Skipped,
		OutputPath:  cfg.OutputPath,
		Elapsed:     elapsed,
	}
	for i, label := range labels {
		run.Categories = append(run.Categories, db.Category{
			Position:      i,
			Label:         label,
			DocumentTotal: result.Stats.Frequency[i],
		})
	}

	runID, _, err := store.SaveRunWithLinks(run, result.Table)
	if err != nil {
		return 0, err
	}
	return runID, nil
}
