package mapreduce

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dtnitsch/citylink/pkg/category"
	"github.com/dtnitsch/citylink/pkg/linktable"
	"github.com/dtnitsch/citylink/pkg/source"
	"github.com/dtnitsch/citylink/pkg/universe"
)

// Partitioned aggregates independent sources on up to Workers goroutines,
// one private table per source, then sums the partial tables.
type Partitioned struct {
	Universe *universe.Universe
	Matcher  *category.Matcher
	Workers  int
	// Tree selects the pairwise ReduceTree instead of a single fold.
	Tree   bool
	Logger *slog.Logger
}

// Run aggregates every source. The first failing worker cancels the others
// and its error is returned; no partial result is produced.
func (p *Partitioned) Run(ctx context.Context, sources []source.Source) (*Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	n := p.Matcher.N()

	logger.Info("Starting map phase", "partitions", len(sources), "workers", workers)
	start := time.Now()

	partials := make([]*Result, len(sources))
	started := make([]bool, len(sources))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range sources {
		started[i] = true
		g.Go(func() error {
			res, err := NewSerial(p.Universe, p.Matcher, logger.With("partition", i)).Run(gCtx, src)
			if err != nil {
				return fmt.Errorf("partition %d: %w", i, err)
			}
			partials[i] = res
			logger.Debug("Partition finished", "partition", i, "documents", res.Stats.Documents, "skipped", res.Stats.SkippedTotal())
			return nil
		})
		if gCtx.Err() != nil {
			break
		}
	}
	err := g.Wait()
	for i, src := range sources {
		if !started[i] {
			if c, ok := src.(io.Closer); ok {
				c.Close()
			}
		}
	}
	if err != nil {
		logger.Error("Map phase failed", "error", err)
		return nil, err
	}
	logger.Info("Map phase finished", "elapsed", time.Since(start))

	tables := make([]*linktable.Table, len(partials))
	stats := newStats(n)
	for i, res := range partials {
		tables[i] = res.Table
		if err := stats.Merge(res.Stats); err != nil {
			return nil, err
		}
	}

	var final *linktable.Table
	if p.Tree && len(tables) > 0 {
		final, err = ReduceTree(ctx, tables, workers)
	} else {
		final, err = Reduce(p.Universe, n, tables)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("Reduce phase finished", "partials", len(tables), "tree", p.Tree)
	return &Result{Table: final, Stats: stats}, nil
}
