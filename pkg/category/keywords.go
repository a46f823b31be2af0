// Package category maps a document's words onto a fixed set of topical
// categories, each defined by a set of keywords.
package category

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrVectorLength  = errors.New("category vector length mismatch")
	ErrNoCategories  = errors.New("no categories configured")
	ErrCategoryCount = errors.New("category count mismatch")
	ErrEmptyCategory = errors.New("category label is empty")
)

// KeywordSet is the immutable category -> keywords mapping. Category i
// (0-based) has label Labels()[i].
type KeywordSet struct {
	labels   []string
	keywords []map[string]struct{}
	// index maps a keyword to every category that lists it.
	index map[string][]int
}

// NewKeywordSet builds a set from parallel labels and keyword lists.
func NewKeywordSet(labels []string, keywords [][]string) (*KeywordSet, error) {
	if len(labels) == 0 {
		return nil, ErrNoCategories
	}
	if len(labels) != len(keywords) {
		return nil, fmt.Errorf("%w: %d labels, %d keyword lists", ErrCategoryCount, len(labels), len(keywords))
	}

	ks := &KeywordSet{
		labels:   make([]string, len(labels)),
		keywords: make([]map[string]struct{}, len(labels)),
		index:    make(map[string][]int),
	}
	for i, label := range labels {
		if strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("%w: category %d", ErrEmptyCategory, i)
		}
		ks.labels[i] = label
		ks.keywords[i] = make(map[string]struct{}, len(keywords[i]))
		for _, w := range keywords[i] {
			if w == "" {
				continue
			}
			if _, dup := ks.keywords[i][w]; dup {
				continue
			}
			ks.keywords[i][w] = struct{}{}
			ks.index[w] = append(ks.index[w], i)
		}
	}
	return ks, nil
}

// N returns the number of categories.
func (ks *KeywordSet) N() int { return len(ks.labels) }

func (ks *KeywordSet) Labels() []string {
	out := make([]string, len(ks.labels))
	copy(out, ks.labels)
	return out
}

// Contains reports whether word is a keyword of category i.
func (ks *KeywordSet) Contains(i int, word string) bool {
	if i < 0 || i >= len(ks.keywords) {
		return false
	}
	_, ok := ks.keywords[i][word]
	return ok
}

// Keywords returns the keywords of category i in no particular order.
func (ks *KeywordSet) Keywords(i int) []string {
	if i < 0 || i >= len(ks.keywords) {
		return nil
	}
	out := make([]string, 0, len(ks.keywords[i]))
	for w := range ks.keywords[i] {
		out = append(out, w)
	}
	return out
}

// LoadSeedCSV reads hand-picked seed keywords laid out one column per
// category: row k holds the k-th seed of every category, blank cells allowed.
func LoadSeedCSV(r io.Reader, n int) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	seeds := make([][]string, n)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read seed keywords: %w", err)
		}
		for i, cell := range record {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if i >= n {
				return nil, fmt.Errorf("%w: seed column %d beyond %d categories", ErrCategoryCount, i+1, n)
			}
			seeds[i] = append(seeds[i], cell)
		}
	}
	return seeds, nil
}

// LoadExpandedCSV reads expanded keywords laid out one row per category.
func LoadExpandedCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read expanded keywords: %w", err)
		}
		row := make([]string, 0, len(record))
		for _, cell := range record {
			if cell = strings.TrimSpace(cell); cell != "" {
				row = append(row, cell)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteExpandedCSV writes one row per category, the format LoadExpandedCSV reads.
// A category without keywords is written as a single empty cell so the row
// is not dropped as a blank line.
func WriteExpandedCSV(w io.Writer, keywords [][]string) error {
	writer := csv.NewWriter(w)
	for _, row := range keywords {
		if len(row) == 0 {
			writer.Flush()
			if err := writer.Error(); err != nil {
				return fmt.Errorf("failed to write expanded keywords: %w", err)
			}
			if _, err := io.WriteString(w, "\"\"\n"); err != nil {
				return fmt.Errorf("failed to write expanded keywords: %w", err)
			}
			continue
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write expanded keywords: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
