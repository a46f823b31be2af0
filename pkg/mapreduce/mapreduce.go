package mapreduce

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dtnitsch/citylink/models"
	"github.com/dtnitsch/citylink/pkg/category"
	"github.com/dtnitsch/citylink/pkg/linktable"
	"github.com/dtnitsch/citylink/pkg/universe"
)

// Map scores a single document and adds its vector to every pair of its
// entities. It returns the document vector and the number of pairs touched.
func Map(doc models.Document, m *category.Matcher, table *linktable.Table) (category.Vector, int, error) {
	v := m.Score(doc.Words)
	pairs, err := table.AddDocument(doc.Entities, v)
	if err != nil {
		return nil, 0, err
	}
	return v, pairs, nil
}

// Reduce sums partial tables into a fresh table over u. Every counter of
// every table is added exactly once; the inputs are left untouched.
func Reduce(u *universe.Universe, n int, tables []*linktable.Table) (*linktable.Table, error) {
	final := linktable.New(u, n)
	for i, t := range tables {
		if err := final.Merge(t); err != nil {
			return nil, fmt.Errorf("failed to reduce table %d: %w", i, err)
		}
	}
	return final, nil
}

// ReduceTree sums tables pairwise in a balanced tree, merging up to
// parallelism pairs at once. It consumes its inputs: tables are merged in
// place and the returned table is one of them.
func ReduceTree(ctx context.Context, tables []*linktable.Table, parallelism int) (*linktable.Table, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("no tables to reduce")
	}
	if parallelism < 1 {
		parallelism = 1
	}

	level := tables
	for len(level) > 1 {
		next := make([]*linktable.Table, (len(level)+1)/2)
		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(parallelism)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			next[i/2] = left
			if i+1 == len(level) {
				continue
			}
			right := level[i+1]
			g.Go(func() error {
				if err := gCtx.Err(); err != nil {
					return err
				}
				return left.Merge(right)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("failed to reduce tables: %w", err)
		}
		level = next
	}
	return level[0], nil
}
