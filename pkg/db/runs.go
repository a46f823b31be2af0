package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/citylink/pkg/category"
	"github.com/dtnitsch/citylink/pkg/linktable"
	"github.com/dtnitsch/citylink/pkg/universe"
)

var (
	ErrRunNotFound      = errors.New("run not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Run is a stored aggregation run.
type Run struct {
	RunID       int64
	CreatedAt   time.Time
	ConfigHash  string
	InputDir    string
	Files       []string
	Workers     int
	Entities    int
	Pairs       int
	Records     int
	Documents   int
	PairUpdates int
	Skipped     map[string]int
	OutputPath  string
	Elapsed     time.Duration
	Categories  []Category
}

// Category is one label of a run with its per-document total.
type Category struct {
	Position      int
	Label         string
	DocumentTotal int64
}

// LinkRow is one ranked link read back from city_links.
type LinkRow struct {
	City1 string
	City2 string
	Count int64
}

// SaveRun inserts the run and its categories, returning the new run_id.
func (db *DB) SaveRun(run *Run) (int64, error) {
	runID, _, err := db.SaveRunWithLinks(run, nil)
	return runID, err
}

// SaveRunWithLinks inserts the run, its categories and every non-zero counter
// of table in one transaction, so a failed link insert leaves no run behind.
// A nil table stores the run alone. It returns the run_id and the number of
// link rows written.
func (db *DB) SaveRunWithLinks(run *Run, table *linktable.Table) (int64, int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	runID, err := insertRun(tx, run)
	if err != nil {
		return 0, 0, err
	}
	written := 0
	if table != nil {
		if written, err = insertLinks(tx, runID, table); err != nil {
			return 0, 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit run: %w", err)
	}
	run.RunID = runID
	return runID, written, nil
}

// SaveLinks stores every non-zero counter of table under an existing runID
// in one transaction. It returns the number of rows written.
func (db *DB) SaveLinks(runID int64, table *linktable.Table) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	written, err := insertLinks(tx, runID, table)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit links: %w", err)
	}
	return written, nil
}

func insertRun(tx *sql.Tx, run *Run) (int64, error) {
	files, err := json.Marshal(run.Files)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal files: %w", err)
	}
	skipped, err := json.Marshal(run.Skipped)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal skip counts: %w", err)
	}

	result, err := tx.Exec(`
		INSERT INTO runs (config_hash, input_dir, files, workers, entities, pairs,
			records, documents, pair_updates, skipped, output_path, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ConfigHash, run.InputDir, string(files), run.Workers, run.Entities, run.Pairs,
		run.Records, run.Documents, run.PairUpdates, string(skipped), run.OutputPath, run.Elapsed.Milliseconds())
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, c := range run.Categories {
		_, err := tx.Exec(`
			INSERT INTO run_categories (run_id, position, label, document_total)
			VALUES (?, ?, ?, ?)
		`, runID, c.Position, c.Label, c.DocumentTotal)
		if err != nil {
			return 0, fmt.Errorf("failed to insert category %s: %w", c.Label, err)
		}
	}
	return runID, nil
}

func insertLinks(tx *sql.Tx, runID int64, table *linktable.Table) (int, error) {
	stmt, err := tx.Prepare(`
		INSERT INTO city_links (run_id, city1, city2, position, count)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare link insert: %w", err)
	}
	defer stmt.Close()

	written := 0
	err = table.Each(func(key universe.PairKey, v category.Vector) error {
		for pos, c := range v {
			if c == 0 {
				continue
			}
			if _, err := stmt.Exec(runID, key.First(), key.Second(), pos, c); err != nil {
				return fmt.Errorf("failed to insert link %s: %w", key, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// ListRuns returns the most recent runs first, without categories.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`
		SELECT run_id, created_at, config_hash, input_dir, files, workers, entities, pairs,
			records, documents, pair_updates, skipped, output_path, elapsed_ms
		FROM runs
		ORDER BY run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun returns a run with its categories.
func (db *DB) GetRun(runID int64) (*Run, error) {
	row := db.QueryRow(`
		SELECT run_id, created_at, config_hash, input_dir, files, workers, entities, pairs,
			records, documents, pair_updates, skipped, output_path, elapsed_ms
		FROM runs
		WHERE run_id = ?
	`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT position, label, document_total
		FROM run_categories
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Position, &c.Label, &c.DocumentTotal); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		run.Categories = append(run.Categories, c)
	}
	return run, rows.Err()
}

// GetLinks returns the top links of a run, highest count first. An empty
// label ranks by the sum over all categories; limit <= 0 returns every link.
func (db *DB) GetLinks(runID int64, label string, limit int) ([]LinkRow, error) {
	if limit <= 0 {
		limit = -1
	}

	var rows *sql.Rows
	var err error
	if label == "" {
		rows, err = db.Query(`
			SELECT city1, city2, SUM(count) AS total
			FROM city_links
			WHERE run_id = ?
			GROUP BY city1, city2
			ORDER BY total DESC, city1, city2
			LIMIT ?
		`, runID, limit)
	} else {
		var pos int
		err = db.QueryRow(`SELECT position FROM run_categories WHERE run_id = ? AND label = ?`, runID, label).Scan(&pos)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q in run %d", ErrCategoryNotFound, label, runID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up category: %w", err)
		}
		rows, err = db.Query(`
			SELECT city1, city2, count
			FROM city_links
			WHERE run_id = ? AND position = ?
			ORDER BY count DESC, city1, city2
			LIMIT ?
		`, runID, pos, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var links []LinkRow
	for rows.Next() {
		var l LinkRow
		if err := rows.Scan(&l.City1, &l.City2, &l.Count); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var run Run
	var configHash, inputDir, files, skipped, outputPath sql.NullString
	var elapsedMS int64
	err := s.Scan(&run.RunID, &run.CreatedAt, &configHash, &inputDir, &files, &run.Workers,
		&run.Entities, &run.Pairs, &run.Records, &run.Documents, &run.PairUpdates, &skipped,
		&outputPath, &elapsedMS)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.ConfigHash = configHash.String
	run.InputDir = inputDir.String
	run.OutputPath = outputPath.String
	run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	if files.Valid && files.String != "" {
		if err := json.Unmarshal([]byte(files.String), &run.Files); err != nil {
			return nil, fmt.Errorf("failed to decode files of run %d: %w", run.RunID, err)
		}
	}
	if skipped.Valid && skipped.String != "" {
		if err := json.Unmarshal([]byte(skipped.String), &run.Skipped); err != nil {
			return nil, fmt.Errorf("failed to decode skip counts of run %d: %w", run.RunID, err)
		}
	}
	return &run, nil
}
