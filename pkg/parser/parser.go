package parser

import (
	"bufio"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

type Parser struct{}

// Article is the readable text of one HTML page.
type Article struct {
	Title string
	// Lines holds one entry per content block, in page order.
	Lines []string
}

// Text joins the article lines with newlines.
func (a *Article) Text() string {
	return strings.Join(a.Lines, "\n")
}

// Parse uses go-readability to find the main content, then walks the
// distilled HTML with goquery to collect text blocks. If readability cannot
// find an article it falls back to every block of the raw page.
func (p *Parser) Parse(rawURL, html string) (*Article, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", rawURL, err)
	}

	content := html
	title := ""
	rp := readability.NewParser()
	article, err := rp.Parse(strings.NewReader(html), parsedURL)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		content = article.Content
		title = normalizeText(article.Title)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	if title == "" {
		title = normalizeText(doc.Find("title").First().Text())
	}

	var lines []string
	doc.Find("h1,h2,h3,h4,p,li,td").Each(func(i int, s *goquery.Selection) {
		if text := normalizeText(s.Text()); text != "" {
			lines = append(lines, text)
		}
	})

	return &Article{Title: title, Lines: lines}, nil
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
