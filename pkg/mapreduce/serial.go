package mapreduce

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/dtnitsch/citylink/pkg/category"
	"github.com/dtnitsch/citylink/pkg/linktable"
	"github.com/dtnitsch/citylink/pkg/source"
	"github.com/dtnitsch/citylink/pkg/universe"
)

// ErrAlreadyRun is returned when Run is called on a Serial that left Idle.
var ErrAlreadyRun = errors.New("aggregator already run")

// State is the lifecycle of a Serial aggregator.
type State int

const (
	Idle State = iota
	Streaming
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Streaming:
		return "streaming"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stats describes what a run consumed.
type Stats struct {
	// Records is every record pulled from the source, skipped ones included.
	Records     int            `json:"records" yaml:"records"`
	Documents   int            `json:"documents" yaml:"documents"`
	PairUpdates int            `json:"pair_updates" yaml:"pair_updates"`
	Skipped     map[string]int `json:"skipped" yaml:"skipped"`
	// Frequency is the category total over contributing documents, counted
	// once per document rather than once per pair.
	Frequency category.Vector `json:"frequency" yaml:"frequency"`
}

func newStats(n int) Stats {
	return Stats{Skipped: make(map[string]int), Frequency: category.NewVector(n)}
}

// Merge folds other into s.
func (s *Stats) Merge(other Stats) error {
	s.Records += other.Records
	s.Documents += other.Documents
	s.PairUpdates += other.PairUpdates
	for reason, c := range other.Skipped {
		s.Skipped[reason] += c
	}
	return s.Frequency.Add(other.Frequency)
}

// SkippedTotal sums skip counts over every reason.
func (s Stats) SkippedTotal() int {
	total := 0
	for _, c := range s.Skipped {
		total += c
	}
	return total
}

// SkipReasons returns the reasons seen, sorted.
func (s Stats) SkipReasons() []string {
	reasons := make([]string, 0, len(s.Skipped))
	for r := range s.Skipped {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	return reasons
}

// Result is the output of an aggregation run.
type Result struct {
	Table *linktable.Table
	Stats Stats
}

// Serial streams documents from one source into one link table.
type Serial struct {
	matcher *category.Matcher
	table   *linktable.Table
	logger  *slog.Logger
	state   State
	stats   Stats
}

// NewSerial creates an Idle aggregator with a zeroed table over u.
func NewSerial(u *universe.Universe, m *category.Matcher, logger *slog.Logger) *Serial {
	if logger == nil {
		logger = slog.Default()
	}
	return &Serial{
		matcher: m,
		table:   linktable.New(u, m.N()),
		logger:  logger,
		state:   Idle,
		stats:   newStats(m.N()),
	}
}

func (s *Serial) State() State { return s.state }

// Run pulls documents until the source is exhausted. Skipped records are
// counted and logged; a source failure or a pair outside the universe ends
// the run in Failed with that error.
func (s *Serial) Run(ctx context.Context, src source.Source) (*Result, error) {
	if s.state != Idle {
		return nil, fmt.Errorf("%w: state %s", ErrAlreadyRun, s.state)
	}
	s.state = Streaming
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	for {
		doc, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if reason, ok := source.AsSkip(err); ok {
			s.stats.Records++
			s.stats.Skipped[reason]++
			s.logger.Debug("Skipping record", "reason", reason, "error", err)
			continue
		}
		if err != nil {
			s.state = Failed
			return nil, err
		}

		s.stats.Records++
		if err := doc.Validate(); err != nil {
			s.stats.Skipped[source.ReasonInvalidDocument]++
			s.logger.Warn("Skipping invalid document", "error", err)
			continue
		}

		v, pairs, err := Map(doc, s.matcher, s.table)
		if err != nil {
			s.state = Failed
			return nil, fmt.Errorf("entity universe out of sync with document entities: %w", err)
		}
		s.stats.Documents++
		s.stats.PairUpdates += pairs
		if err := s.stats.Frequency.Add(v); err != nil {
			s.state = Failed
			return nil, err
		}
	}

	s.state = Done
	return &Result{Table: s.table, Stats: s.stats}, nil
}
