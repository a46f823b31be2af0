package source

import (
	"fmt"

	"github.com/dtnitsch/citylink/models"
	"github.com/dtnitsch/citylink/pkg/analytics"
	"github.com/dtnitsch/citylink/pkg/detector"
	"github.com/dtnitsch/citylink/pkg/segment"
	"github.com/dtnitsch/citylink/pkg/universe"
)

// Pipeline turns one raw text record into a Document: clean, segment, drop
// stopwords, then pull city mentions out of the word list.
type Pipeline struct {
	Universe  *universe.Universe
	Segmenter segment.Segmenter
	Stopwords *analytics.Stopwords
	// Languages is optional; when set, records in other languages are skipped.
	Languages *detector.LanguageFilter
}

// Document builds a document from one raw line, or returns a *SkipError.
// Blank lines and crawl headers are skipped as meta.
func (p *Pipeline) Document(raw string) (models.Document, error) {
	text, ok := segment.Clean(raw)
	if !ok {
		return models.Document{}, skip(ReasonMeta, "")
	}
	return p.document(raw, text)
}

// Page builds a document from the readable text of an HTML page. Page text
// is never a crawl header.
func (p *Pipeline) Page(raw string) (models.Document, error) {
	text, ok := segment.Strip(raw)
	if !ok {
		return models.Document{}, skip(ReasonMeta, "")
	}
	return p.document(raw, text)
}

// document segments the stripped text; raw feeds the language filter.
func (p *Pipeline) document(raw, text string) (models.Document, error) {
	if p.Languages != nil && !p.Languages.Accept(raw) {
		return models.Document{}, skip(ReasonLanguage, "")
	}

	words := p.Stopwords.Filter(p.Segmenter.Cut(text))
	// Fewer than two words cannot mention two cities.
	if len(words) < 2 {
		return models.Document{}, skip(ReasonTooFewWords, fmt.Sprintf("%d words", len(words)))
	}

	words, entities := p.extractEntities(words)
	if len(entities) < 2 {
		return models.Document{}, skip(ReasonTooFewEntities, fmt.Sprintf("%d entities", len(entities)))
	}
	return models.Document{Words: words, Entities: entities}, nil
}

// extractEntities removes every universe member from words and returns the
// remaining words plus the distinct entities in first-seen order. Cities are
// not evidence for any category, so they never reach the matcher.
func (p *Pipeline) extractEntities(words []string) ([]string, []string) {
	kept := words[:0]
	var entities []string
	seen := make(map[string]struct{})
	for _, w := range words {
		if !p.Universe.Contains(w) {
			kept = append(kept, w)
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		entities = append(entities, w)
	}
	return kept, entities
}
