package source

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/dtnitsch/citylink/models"
)

// Contiguous splits docs into p consecutive runs of near-equal size. Some
// partitions are empty when len(docs) < p.
func Contiguous(docs []models.Document, p int) [][]models.Document {
	if p < 1 {
		p = 1
	}
	parts := make([][]models.Document, p)
	size, extra := len(docs)/p, len(docs)%p
	start := 0
	for i := range parts {
		end := start + size
		if i < extra {
			end++
		}
		parts[i] = docs[start:end]
		start = end
	}
	return parts
}

// Striped deals docs round-robin into p partitions.
func Striped(docs []models.Document, p int) [][]models.Document {
	if p < 1 {
		p = 1
	}
	parts := make([][]models.Document, p)
	for i, doc := range docs {
		parts[i%p] = append(parts[i%p], doc)
	}
	return parts
}

// StripeFiles deals files round-robin into at most p groups. Groups are
// never empty.
func StripeFiles(files []string, p int) [][]string {
	if p < 1 {
		p = 1
	}
	if p > len(files) {
		p = len(files)
	}
	groups := make([][]string, p)
	for i, f := range files {
		groups[i%p] = append(groups[i%p], f)
	}
	return groups
}

// SelectFiles lists files in dir matching pattern, sorted by name, and keeps
// files[start:end:step]. end <= 0 means through the last file.
func SelectFiles(dir, pattern string, start, end, step int) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)

	if step < 1 {
		step = 1
	}
	if end <= 0 || end > len(matches) {
		end = len(matches)
	}
	if start < 0 {
		start = 0
	}
	var selected []string
	for i := start; i < end; i += step {
		selected = append(selected, matches[i])
	}
	return selected, nil
}
