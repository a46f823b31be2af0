// Package embedding loads word vectors and expands seed keywords with their
// nearest neighbours.
package embedding

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrUnknownWord = errors.New("word not in vocabulary")
	ErrDimension   = errors.New("inconsistent vector dimension")
)

// Model holds unit-length word vectors, so cosine similarity is a dot product.
type Model struct {
	words []string
	index map[string]int
	vecs  [][]float64
	dim   int
}

// Similar is a neighbour returned by MostSimilar.
type Similar struct {
	Word       string
	Similarity float64
}

// Load reads the word2vec text format: an optional "count dim" header line,
// then one "word v1 v2 ..." line per word. vocabLimit > 0 stops after that
// many words. Zero vectors are dropped.
func Load(r io.Reader, vocabLimit int) (*Model, error) {
	m := &Model{index: make(map[string]int)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if lineNo == 1 && len(fields) == 2 {
			if _, err := strconv.Atoi(fields[0]); err == nil {
				continue
			}
		}
		if vocabLimit > 0 && len(m.words) >= vocabLimit {
			break
		}

		vec := make([]float64, len(fields)-1)
		for i, f := range fields[1:] {
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad component %q: %w", lineNo, f, err)
			}
			vec[i] = x
		}
		if m.dim == 0 {
			m.dim = len(vec)
		}
		if len(vec) != m.dim || m.dim == 0 {
			return nil, fmt.Errorf("%w: line %d has %d components, want %d", ErrDimension, lineNo, len(vec), m.dim)
		}
		m.add(fields[0], vec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read embeddings: %w", err)
	}
	return m, nil
}

// New builds a model from in-memory vectors.
func New(vectors map[string][]float64) (*Model, error) {
	words := make([]string, 0, len(vectors))
	for w := range vectors {
		words = append(words, w)
	}
	sort.Strings(words)

	m := &Model{index: make(map[string]int)}
	for _, w := range words {
		vec := append([]float64(nil), vectors[w]...)
		if m.dim == 0 {
			m.dim = len(vec)
		}
		if len(vec) != m.dim {
			return nil, fmt.Errorf("%w: %q has %d components, want %d", ErrDimension, w, len(vec), m.dim)
		}
		m.add(w, vec)
	}
	return m, nil
}

func (m *Model) add(word string, vec []float64) {
	if _, dup := m.index[word]; dup {
		return
	}
	norm := floats.Norm(vec, 2)
	if norm == 0 {
		return
	}
	floats.Scale(1/norm, vec)
	m.index[word] = len(m.words)
	m.words = append(m.words, word)
	m.vecs = append(m.vecs, vec)
}

func (m *Model) Len() int { return len(m.words) }

func (m *Model) Dim() int { return m.dim }

func (m *Model) Contains(word string) bool {
	_, ok := m.index[word]
	return ok
}

// Similarity is the cosine similarity of two in-vocabulary words.
func (m *Model) Similarity(a, b string) (float64, error) {
	i, ok := m.index[a]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWord, a)
	}
	j, ok := m.index[b]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWord, b)
	}
	return floats.Dot(m.vecs[i], m.vecs[j]), nil
}

// MostSimilar returns the topn words closest to word, best first, excluding
// word itself. Equal similarities keep vocabulary order.
func (m *Model) MostSimilar(word string, topn int) ([]Similar, error) {
	i, ok := m.index[word]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWord, word)
	}
	q := m.vecs[i]

	out := make([]Similar, 0, len(m.words)-1)
	for j, vec := range m.vecs {
		if j == i {
			continue
		}
		out = append(out, Similar{Word: m.words[j], Similarity: floats.Dot(q, vec)})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Similarity > out[b].Similarity
	})
	if topn >= 0 && len(out) > topn {
		out = out[:topn]
	}
	return out, nil
}

// Expand grows each category's seed list. Every in-vocabulary seed is kept,
// followed by its most similar words for as long as their similarity stays
// above threshold; the first neighbour at or below threshold ends that seed.
// Seeds outside the vocabulary are dropped. Words already in the category
// are not repeated.
func (m *Model) Expand(seeds [][]string, threshold float64, topn int) ([][]string, error) {
	expanded := make([][]string, len(seeds))
	for c, category := range seeds {
		seen := make(map[string]bool)
		keep := func(w string) {
			if !seen[w] {
				seen[w] = true
				expanded[c] = append(expanded[c], w)
			}
		}
		for _, seed := range category {
			if !m.Contains(seed) {
				continue
			}
			keep(seed)
			neighbours, err := m.MostSimilar(seed, topn)
			if err != nil {
				return nil, err
			}
			for _, n := range neighbours {
				if n.Similarity <= threshold {
					break
				}
				keep(n.Word)
			}
		}
	}
	return expanded, nil
}
