// Package export writes a finished link table as a CSV report.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dtnitsch/citylink/pkg/category"
	"github.com/dtnitsch/citylink/pkg/linktable"
	"github.com/dtnitsch/citylink/pkg/universe"
)

var ErrLabelCount = errors.New("label count does not match table categories")

// Exporter renders one row per pair: the two entities in canonical order,
// then one count column per category label.
type Exporter struct {
	Labels []string
	// OmitZero drops pairs whose vector is all zero. The default keeps every
	// pair in the domain.
	OmitZero bool
}

func (e *Exporter) Header() []string {
	return append([]string{"City1", "City2"}, e.Labels...)
}

// Rows returns the report body in canonical pair order.
func (e *Exporter) Rows(table *linktable.Table) ([][]string, error) {
	if len(e.Labels) != table.N() {
		return nil, fmt.Errorf("%w: %d labels, %d categories", ErrLabelCount, len(e.Labels), table.N())
	}
	rows := make([][]string, 0, table.Len())
	err := table.Each(func(key universe.PairKey, v category.Vector) error {
		if e.OmitZero && v.IsZero() {
			return nil
		}
		row := make([]string, 0, 2+len(v))
		row = append(row, key.First(), key.Second())
		for _, c := range v {
			row = append(row, strconv.FormatInt(c, 10))
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// WriteCSV writes the header and every row to w. It returns the number of
// data rows written.
func (e *Exporter) WriteCSV(w io.Writer, table *linktable.Table) (int, error) {
	rows, err := e.Rows(table)
	if err != nil {
		return 0, err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(e.Header()); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return 0, fmt.Errorf("failed to write rows: %w", err)
	}
	return len(rows), nil
}
