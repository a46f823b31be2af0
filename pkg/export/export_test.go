package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/dtnitsch/citylink/pkg/category"
	"github.com/dtnitsch/citylink/pkg/linktable"
	"github.com/dtnitsch/citylink/pkg/universe"
)

func newTable(t *testing.T) *linktable.Table {
	t.Helper()
	u, err := universe.New([]string{"上海", "北京", "广州", "深圳"})
	if err != nil {
		t.Fatalf("universe.New() error = %v", err)
	}
	table := linktable.New(u, 2)
	if _, err := table.AddDocument([]string{"北京", "上海"}, category.Vector{3, 1}); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	return table
}

func TestWriteCSV_FullDomain(t *testing.T) {
	table := newTable(t)
	e := &Exporter{Labels: []string{"金融", "科技"}}

	var buf bytes.Buffer
	n, err := e.WriteCSV(&buf, table)
	if err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if n != 6 {
		t.Errorf("WriteCSV() wrote %d rows, want C(4,2) = 6", n)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to read back CSV: %v", err)
	}
	if len(records) != 7 {
		t.Fatalf("got %d records, want header + 6", len(records))
	}
	header := records[0]
	if header[0] != "City1" || header[1] != "City2" || header[2] != "金融" || header[3] != "科技" {
		t.Errorf("header = %v", header)
	}

	seen := map[string]bool{}
	for _, rec := range records[1:] {
		if rec[0] >= rec[1] {
			t.Errorf("row %v is not in canonical order", rec)
		}
		pair := rec[0] + "|" + rec[1]
		if seen[pair] {
			t.Errorf("pair %s written twice", pair)
		}
		seen[pair] = true
		if rec[0] == "上海" && rec[1] == "北京" && (rec[2] != "3" || rec[3] != "1") {
			t.Errorf("上海-北京 row = %v, want counts 3,1", rec)
		}
	}
}

func TestRows_OmitZero(t *testing.T) {
	e := &Exporter{Labels: []string{"金融", "科技"}, OmitZero: true}
	rows, err := e.Rows(newTable(t))
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Rows() = %v, want only the non-zero pair", rows)
	}
}

func TestRows_LabelCount(t *testing.T) {
	e := &Exporter{Labels: []string{"金融"}}
	if _, err := e.Rows(newTable(t)); !errors.Is(err, ErrLabelCount) {
		t.Errorf("Rows() error = %v, want ErrLabelCount", err)
	}
}
