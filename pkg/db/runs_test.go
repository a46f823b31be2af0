package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dtnitsch/citylink/pkg/category"
	"github.com/dtnitsch/citylink/pkg/linktable"
	"github.com/dtnitsch/citylink/pkg/universe"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	// Every pooled connection to :memory: is a separate database.
	database.SetMaxOpenConns(1)

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func testTable(t *testing.T) *linktable.Table {
	t.Helper()
	u, err := universe.New([]string{"X", "Y", "Z"})
	if err != nil {
		t.Fatalf("universe.New() error = %v", err)
	}
	table := linktable.New(u, 2)
	if _, err := table.AddDocument([]string{"X", "Y"}, category.Vector{1, 0}); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	if _, err := table.AddDocument([]string{"X", "Y", "Z"}, category.Vector{0, 2}); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	return table
}

func testRun() *Run {
	return &Run{
		ConfigHash: "abc123",
		InputDir:   "data",
		Files:      []string{"data/part-00000", "data/part-00001"},
		Workers:    2,
		Entities:   3,
		Pairs:      3,
		Records:    5,
		Documents:  2,
		Skipped:    map[string]int{"meta": 3},
		OutputPath: "results/out.csv",
		Elapsed:    1200 * time.Millisecond,
		Categories: []Category{
			{Position: 0, Label: "finance", DocumentTotal: 1},
			{Position: 1, Label: "tech", DocumentTotal: 2},
		},
	}
}

func TestSaveRun_GetRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.SaveRun(testRun())
	if err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
	if runID == 0 {
		t.Fatal("SaveRun() returned 0 ID")
	}

	got, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if got.Workers != 2 || got.Documents != 2 || got.Skipped["meta"] != 3 {
		t.Errorf("GetRun() = %+v", got)
	}
	if len(got.Files) != 2 || got.Elapsed != 1200*time.Millisecond {
		t.Errorf("Files = %v, Elapsed = %v", got.Files, got.Elapsed)
	}
	if len(got.Categories) != 2 || got.Categories[1].Label != "tech" || got.Categories[1].DocumentTotal != 2 {
		t.Errorf("Categories = %+v", got.Categories)
	}

	if _, err := db.GetRun(runID + 100); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun(missing) error = %v, want ErrRunNotFound", err)
	}
}

func TestSaveLinks_GetLinks(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.SaveRun(testRun())
	if err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
	written, err := db.SaveLinks(runID, testTable(t))
	if err != nil {
		t.Fatalf("SaveLinks() error = %v", err)
	}
	// XY has two non-zero categories, XZ and YZ one each.
	if written != 4 {
		t.Errorf("SaveLinks() wrote %d rows, want 4", written)
	}

	tests := []struct {
		name  string
		label string
		limit int
		want  []LinkRow
	}{
		{
			name:  "all categories",
			limit: 2,
			want:  []LinkRow{{"X", "Y", 3}, {"X", "Z", 2}},
		},
		{
			name:  "finance",
			label: "finance",
			want:  []LinkRow{{"X", "Y", 1}},
		},
		{
			name:  "tech",
			label: "tech",
			want:  []LinkRow{{"X", "Y", 2}, {"X", "Z", 2}, {"Y", "Z", 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.GetLinks(runID, tt.label, tt.limit)
			if err != nil {
				t.Fatalf("GetLinks() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("GetLinks() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("GetLinks()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}

	if _, err := db.GetLinks(runID, "sports", 0); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("GetLinks(unknown label) error = %v, want ErrCategoryNotFound", err)
	}
}

func TestSaveLinks_UnknownRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.SaveLinks(42, testTable(t)); err == nil {
		t.Error("SaveLinks() for a missing run error = nil, want foreign key failure")
	}
	links, err := db.GetLinks(42, "", 0)
	if err != nil {
		t.Fatalf("GetLinks() error = %v", err)
	}
	if len(links) != 0 {
		t.Errorf("failed SaveLinks left %d rows behind", len(links))
	}
}

func TestSaveRunWithLinks(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	run := testRun()
	runID, written, err := db.SaveRunWithLinks(run, testTable(t))
	if err != nil {
		t.Fatalf("SaveRunWithLinks() error = %v", err)
	}
	if written != 4 || run.RunID != runID {
		t.Errorf("SaveRunWithLinks() = (%d, %d), run.RunID = %d", runID, written, run.RunID)
	}
	links, err := db.GetLinks(runID, "", 0)
	if err != nil {
		t.Fatalf("GetLinks() error = %v", err)
	}
	if len(links) != 3 {
		t.Errorf("GetLinks() returned %d pairs, want 3", len(links))
	}
}

func TestSaveRunWithLinks_LinkFailureLeavesNoRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	// The table carries two categories but the run registers one, so the
	// tech links violate the city_links foreign key.
	run := testRun()
	run.Categories = run.Categories[:1]
	if _, _, err := db.SaveRunWithLinks(run, testTable(t)); err == nil {
		t.Fatal("SaveRunWithLinks() error = nil, want foreign key failure")
	}

	runs, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("failed save left %d runs behind", len(runs))
	}
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for i := 0; i < 3; i++ {
		if _, err := db.SaveRun(testRun()); err != nil {
			t.Fatalf("SaveRun() error = %v", err)
		}
	}
	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 || runs[0].RunID <= runs[1].RunID {
		t.Errorf("ListRuns(2) = %d runs, want newest first", len(runs))
	}
	all, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListRuns(0) = %d runs, want 3", len(all))
	}
}

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store", "citylink.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := db.SaveRun(testRun()); err != nil {
		t.Errorf("SaveRun() on fresh database error = %v", err)
	}
	db.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.ListRuns(0)
	if err != nil || len(runs) != 1 {
		t.Errorf("ListRuns() after reopen = %d runs, error %v", len(runs), err)
	}
	if reopened.Path() != path {
		t.Errorf("Path() = %s, want %s", reopened.Path(), path)
	}
}
