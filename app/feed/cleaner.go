package feed

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxSummaryLength = 300

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Cleaner turns feed entry summaries into plain text: markup stripped,
// entities decoded, whitespace collapsed, length capped.
type Cleaner struct{}

func NewCleaner() *Cleaner {
	return &Cleaner{}
}

func (c *Cleaner) Run(summary string) string {
	if summary == "" {
		return ""
	}

	text := c.stripMarkup(summary)
	text = html.UnescapeString(text)
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if runes := []rune(text); len(runes) > maxSummaryLength {
		text = string(runes[:maxSummaryLength]) + "..."
	}

	return text
}

func (c *Cleaner) stripMarkup(summary string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(summary))
	if err != nil {
		// Malformed fragment the parser refuses; fall back to tag removal
		return htmlTagPattern.ReplaceAllString(summary, "")
	}
	return doc.Text()
}
