package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
	cleaner      *Cleaner
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
		cleaner:      NewCleaner(),
	}
}

// Run parses raw RSS/Atom data into Article records attributed to the given
// source and category. Entries without a title or link are dropped; feed
// order is preserved.
func (p *Parser) Run(data []byte, sourceName, category string) ([]Article, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	now := time.Now().UTC()
	articles := make([]Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		article, ok := p.normalizeItem(item, sourceName, category, now)
		if !ok {
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item, sourceName, category string, scrapedAt time.Time) (Article, bool) {
	title := strings.TrimSpace(item.Title)
	link := strings.TrimSpace(item.Link)
	if title == "" || link == "" {
		return Article{}, false
	}

	article := Article{
		Source:    sourceName,
		Category:  category,
		Title:     title,
		Link:      link,
		Published: item.Published,
		Summary:   p.cleaner.Run(cmp.Or(item.Description, item.Content)),
		ScrapedAt: scrapedAt,
	}

	if item.PublishedParsed != nil {
		article.PublishedAt = item.PublishedParsed
	}

	return article, true
}
