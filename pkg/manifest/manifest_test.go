package manifest

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/citylink/models"
	"github.com/dtnitsch/citylink/pkg/category"
	"github.com/dtnitsch/citylink/pkg/mapreduce"
	"github.com/dtnitsch/citylink/pkg/source"
	"github.com/dtnitsch/citylink/pkg/storage"
	"github.com/dtnitsch/citylink/pkg/universe"
)

func runXYZ(t *testing.T) *mapreduce.Result {
	t.Helper()
	u, err := universe.New([]string{"X", "Y", "Z"})
	if err != nil {
		t.Fatalf("universe.New() error = %v", err)
	}
	set, err := category.NewKeywordSet([]string{"finance", "tech"}, [][]string{{"bank"}, {"chip"}})
	if err != nil {
		t.Fatalf("NewKeywordSet() error = %v", err)
	}
	docs := []models.Document{
		{Words: []string{"bank"}, Entities: []string{"X", "Y"}},
		{Words: []string{"chip", "chip"}, Entities: []string{"X", "Y", "Z"}},
	}
	res, err := mapreduce.NewSerial(u, category.NewMatcher(set), nil).Run(context.Background(), source.NewSliceSource(docs))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return res
}

func TestBuild(t *testing.T) {
	info := RunInfo{
		Workers: 1,
		Labels:  []string{"finance", "tech"},
		Result:  runXYZ(t),
		Elapsed: 1500 * time.Millisecond,
	}
	m, err := Build(info, 2)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if m.Entities != 3 || m.Pairs != 3 || m.Documents != 2 || m.PairUpdates != 4 {
		t.Errorf("counts = %+v", m)
	}
	if len(m.Categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(m.Categories))
	}
	tech := m.Categories[1]
	if tech.DocumentTotal != 2 || tech.LinkTotal != 6 {
		t.Errorf("tech totals = %d/%d, want 2/6", tech.DocumentTotal, tech.LinkTotal)
	}
	if strings.Join(tech.TopLinks, ",") != "X-Y:2,X-Z:2" {
		t.Errorf("tech top links = %v", tech.TopLinks)
	}
	if m.Elapsed != "1.5s" {
		t.Errorf("Elapsed = %s", m.Elapsed)
	}

	info.Labels = info.Labels[:1]
	if _, err := Build(info, 2); err == nil {
		t.Error("Build() with missing labels error = nil, want error")
	}
}

func TestGenerate_WritesYAML(t *testing.T) {
	s := &storage.Storage{}
	dir := t.TempDir()
	out := filepath.Join(dir, "links.csv")
	if err := s.SaveFile(out, []byte("City1,City2,finance,tech\n")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	path := filepath.Join(dir, "results", "manifest.yaml")
	info := RunInfo{
		RunID:      7,
		Labels:     []string{"finance", "tech"},
		Result:     runXYZ(t),
		OutputPath: out,
		OutputRows: 3,
	}
	if _, err := Generate(info, 5, path, s); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, err := s.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var got RunManifest
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("manifest is not valid YAML: %v", err)
	}
	if got.RunID != 7 || got.Output.Rows != 3 || got.Output.SizeBytes == 0 {
		t.Errorf("manifest = %+v", got)
	}
	if got.Categories[0].Label != "finance" || len(got.Categories[0].TopLinks) != 1 {
		t.Errorf("finance summary = %+v", got.Categories[0])
	}
}
