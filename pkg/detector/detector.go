// Package detector decides whether a raw record is written in one of the
// accepted languages.
package detector

import (
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LanguageFilter accepts text whose detected language is in its accept list.
type LanguageFilter struct {
	detector lingua.LanguageDetector
	accept   map[lingua.Language]struct{}
}

// NewLanguageFilter builds a filter from ISO 639-1 codes such as "zh" or
// "en". Chinese and English are always among the candidate languages so the
// detector has something to tell apart.
func NewLanguageFilter(codes []string) (*LanguageFilter, error) {
	if len(codes) == 0 {
		return nil, fmt.Errorf("no languages given")
	}
	accept := make(map[lingua.Language]struct{}, len(codes))
	candidates := []lingua.Language{lingua.Chinese, lingua.English}
	for _, code := range codes {
		lang, ok := languageFromCode(code)
		if !ok {
			return nil, fmt.Errorf("unknown language code %q", code)
		}
		accept[lang] = struct{}{}
		if lang != lingua.Chinese && lang != lingua.English {
			candidates = append(candidates, lang)
		}
	}

	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(candidates...).
		Build()
	return &LanguageFilter{detector: detector, accept: accept}, nil
}

func languageFromCode(code string) (lingua.Language, bool) {
	code = strings.TrimSpace(code)
	for _, lang := range lingua.AllLanguages() {
		if strings.EqualFold(lang.IsoCode639_1().String(), code) {
			return lang, true
		}
	}
	return lingua.Unknown, false
}

// Accept reports whether text is detected as an accepted language.
// Undetectable text is rejected.
func (f *LanguageFilter) Accept(text string) bool {
	lang, ok := f.detector.DetectLanguageOf(text)
	if !ok {
		return false
	}
	_, accepted := f.accept[lang]
	return accepted
}
