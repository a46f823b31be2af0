// Package source produces documents for aggregation, one at a time.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dtnitsch/citylink/models"
)

// Skip reasons reported through SkipError.
const (
	ReasonMeta            = "meta"
	ReasonTooFewWords     = "too_few_words"
	ReasonTooFewEntities  = "too_few_entities"
	ReasonLanguage        = "language"
	ReasonParse           = "parse_error"
	ReasonInvalidDocument = "invalid_document"
)

// Source is a lazy, finite sequence of documents. Next returns io.EOF when
// the sequence is exhausted and a *SkipError for a record that yields no
// document; any other error is fatal for the source.
type Source interface {
	Next(ctx context.Context) (models.Document, error)
}

// SkipError marks a record that was read but produced no usable document.
type SkipError struct {
	Reason string
	Detail string
}

func (e *SkipError) Error() string {
	if e.Detail == "" {
		return "skipped record: " + e.Reason
	}
	return fmt.Sprintf("skipped record: %s: %s", e.Reason, e.Detail)
}

func skip(reason, detail string) error {
	return &SkipError{Reason: reason, Detail: detail}
}

// AsSkip reports whether err marks a skipped record and returns its reason.
func AsSkip(err error) (string, bool) {
	var se *SkipError
	if errors.As(err, &se) {
		return se.Reason, true
	}
	return "", false
}

// SliceSource serves documents from memory.
type SliceSource struct {
	docs []models.Document
	pos  int
}

func NewSliceSource(docs []models.Document) *SliceSource {
	return &SliceSource{docs: docs}
}

func (s *SliceSource) Next(ctx context.Context) (models.Document, error) {
	if err := ctx.Err(); err != nil {
		return models.Document{}, err
	}
	if s.pos >= len(s.docs) {
		return models.Document{}, io.EOF
	}
	doc := s.docs[s.pos]
	s.pos++
	return doc, nil
}

// Collect drains src into memory, dropping skipped records.
func Collect(ctx context.Context, src Source) ([]models.Document, error) {
	var docs []models.Document
	for {
		doc, err := src.Next(ctx)
		if err == io.EOF {
			return docs, nil
		}
		if _, ok := AsSkip(err); ok {
			continue
		}
		if err != nil {
			return docs, err
		}
		docs = append(docs, doc)
	}
}
