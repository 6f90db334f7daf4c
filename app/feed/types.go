package feed

import (
	"time"
)

// Collection types

// Article is the normalized in-memory representation of one feed entry
// after HTML cleanup. Immutable once produced by the Collector.
type Article struct {
	Source      string
	Category    string
	Title       string
	Link        string
	Published   string // source-format date string, as published in the feed
	PublishedAt *time.Time
	Summary     string // plain text, markup stripped
	ScrapedAt   time.Time
}

// Configuration types

type Source struct {
	Name       string           `yaml:"name"`
	BaseURL    string           `yaml:"base_url"`
	Categories []SourceCategory `yaml:"categories"`
	Settings   SourceSettings   `yaml:"settings"`
}

type SourceCategory struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

type SourceSettings struct {
	Enabled        bool `yaml:"enabled"`
	MaxItems       int  `yaml:"max_items"`
	Timeout        int  `yaml:"timeout"` // seconds
	ExtractContent bool `yaml:"extract_content"`
}
