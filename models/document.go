package models

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewEntities  = errors.New("document has fewer than two distinct entities")
	ErrDuplicateEntity = errors.New("document lists an entity twice")
)

// Document is one tokenized record: its remaining words (entity mentions
// already removed) and the distinct entities it mentions.
type Document struct {
	Words    []string `json:"words" yaml:"words"`
	Entities []string `json:"entities" yaml:"entities"`
}

// Validate checks that the document can form at least one entity pair.
func (d Document) Validate() error {
	if len(d.Entities) < 2 {
		return fmt.Errorf("%w: %d", ErrTooFewEntities, len(d.Entities))
	}
	seen := make(map[string]struct{}, len(d.Entities))
	for _, e := range d.Entities {
		if _, ok := seen[e]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateEntity, e)
		}
		seen[e] = struct{}{}
	}
	return nil
}
