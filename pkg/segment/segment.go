// Package segment turns raw text records into word lists.
package segment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wangbin/jiebago"
)

// Segmenter splits cleaned text into words.
type Segmenter interface {
	Cut(text string) []string
}

var (
	asciiLetters = regexp.MustCompile(`[a-zA-Z]`)
	// ASCII punctuation and digits.
	punctDigits = regexp.MustCompile("[!\"#$%&'()*+,\\-./:;<=>?@\\[\\\\\\]^_`{|}~0-9]")
)

// metaPrefixes mark crawl headers rather than page text.
var metaPrefixes = []string{"\r", "WARC", "Content"}

// IsHeader reports whether a raw line is a crawl header or blank.
func IsHeader(line string) bool {
	if line == "" {
		return true
	}
	for _, p := range metaPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// Clean strips a raw line down to segmentable text. It returns false when the
// line is a crawl header or nothing is left.
func Clean(line string) (string, bool) {
	if IsHeader(line) {
		return "", false
	}
	return Strip(line)
}

// Strip removes ASCII letters, digits and punctuation. It returns false when
// nothing is left.
func Strip(text string) (string, bool) {
	text = asciiLetters.ReplaceAllString(text, "")
	text = punctDigits.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}

// Jieba segments Chinese text with a jieba dictionary, in accurate mode.
type Jieba struct {
	seg jiebago.Segmenter
	hmm bool
}

// NewJieba loads the dictionary at dictPath. hmm enables new-word discovery.
func NewJieba(dictPath string, hmm bool) (*Jieba, error) {
	j := &Jieba{hmm: hmm}
	if err := j.seg.LoadDictionary(dictPath); err != nil {
		return nil, fmt.Errorf("failed to load jieba dictionary %s: %w", dictPath, err)
	}
	return j, nil
}

func (j *Jieba) Cut(text string) []string {
	var words []string
	for w := range j.seg.Cut(text, j.hmm) {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// Whitespace splits on runs of white space. Useful for pre-segmented input.
type Whitespace struct{}

func (Whitespace) Cut(text string) []string {
	return strings.Fields(text)
}
