package analytics

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Stopwords is a set of words dropped before category matching. A nil
// *Stopwords drops nothing.
type Stopwords struct {
	words map[string]struct{}
}

func NewStopwords(words []string) *Stopwords {
	s := &Stopwords{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			s.words[w] = struct{}{}
		}
	}
	return s
}

// LoadStopwords reads one stopword per line.
func LoadStopwords(r io.Reader) (*Stopwords, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stopwords: %w", err)
	}
	return NewStopwords(words), nil
}

func (s *Stopwords) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

// IsStopword checks if a word should be filtered out.
func (s *Stopwords) IsStopword(word string) bool {
	if s == nil {
		return false
	}
	_, exists := s.words[word]
	return exists
}

// Filter removes stopwords from words, reusing its backing array.
func (s *Stopwords) Filter(words []string) []string {
	if s.Len() == 0 {
		return words
	}
	kept := words[:0]
	for _, w := range words {
		if !s.IsStopword(w) {
			kept = append(kept, w)
		}
	}
	return kept
}
