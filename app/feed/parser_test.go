package feed

import (
	"strings"
	"testing"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Economic Times Technology</title>
	<link>https://economictimes.indiatimes.com</link>
	<item>
		<title>Indian IT firms ramp up AI hiring</title>
		<link>https://example.com/article1</link>
		<pubDate>Mon, 04 Aug 2025 09:30:00 +0530</pubDate>
		<description>&lt;p&gt;Top IT firms announced &lt;b&gt;thousands&lt;/b&gt; of AI roles.&lt;/p&gt;</description>
	</item>
	<item>
		<title>Chip fab incentives expanded</title>
		<link>https://example.com/article2</link>
		<description>New semiconductor subsidies were cleared.</description>
	</item>
	<item>
		<title></title>
		<link>https://example.com/article3</link>
		<description>Entry without a title.</description>
	</item>
	<item>
		<title>Entry without a link</title>
		<description>Should be dropped.</description>
	</item>
	<item>
		<title>Entry without a summary</title>
		<link>https://example.com/article5</link>
	</item>
</channel>
</rss>`

func TestParser_Run_NormalizesEntries(t *testing.T) {
	parser := NewParser()

	articles, err := parser.Run([]byte(sampleRSS), "Economic Times", "technology")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Entries missing title or link are dropped
	if len(articles) != 3 {
		t.Fatalf("Expected 3 articles, got %d", len(articles))
	}

	first := articles[0]
	if first.Source != "Economic Times" {
		t.Errorf("Expected source 'Economic Times', got '%s'", first.Source)
	}
	if first.Category != "technology" {
		t.Errorf("Expected category 'technology', got '%s'", first.Category)
	}
	if first.Title != "Indian IT firms ramp up AI hiring" {
		t.Errorf("Unexpected title: %s", first.Title)
	}
	if first.Link != "https://example.com/article1" {
		t.Errorf("Unexpected link: %s", first.Link)
	}
	if first.Published == "" {
		t.Error("Expected published string to be carried from the feed")
	}
	if first.PublishedAt == nil {
		t.Error("Expected parseable pubDate to set PublishedAt")
	}
	if first.ScrapedAt.IsZero() {
		t.Error("Expected ScrapedAt to be set")
	}
}

func TestParser_Run_PreservesFeedOrder(t *testing.T) {
	parser := NewParser()

	articles, err := parser.Run([]byte(sampleRSS), "Economic Times", "technology")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if articles[0].Title != "Indian IT firms ramp up AI hiring" {
		t.Errorf("Expected first feed entry first, got '%s'", articles[0].Title)
	}
	if articles[1].Title != "Chip fab incentives expanded" {
		t.Errorf("Expected second feed entry second, got '%s'", articles[1].Title)
	}
}

func TestParser_Run_CleansSummaries(t *testing.T) {
	parser := NewParser()

	articles, err := parser.Run([]byte(sampleRSS), "Economic Times", "technology")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i, article := range articles {
		if strings.ContainsAny(article.Summary, "<>") {
			t.Errorf("Article %d summary contains markup: %s", i, article.Summary)
		}
	}

	if !strings.Contains(articles[0].Summary, "thousands") {
		t.Errorf("Expected summary text preserved, got: %s", articles[0].Summary)
	}
}

func TestParser_Run_MissingSummaryIsEmpty(t *testing.T) {
	parser := NewParser()

	articles, err := parser.Run([]byte(sampleRSS), "Economic Times", "technology")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	last := articles[len(articles)-1]
	if last.Title != "Entry without a summary" {
		t.Fatalf("Unexpected last article: %s", last.Title)
	}
	if last.Summary != "" {
		t.Errorf("Expected empty summary, got: %s", last.Summary)
	}
}

func TestParser_Run_InvalidData(t *testing.T) {
	parser := NewParser()

	if _, err := parser.Run([]byte("not a feed"), "Economic Times", "technology"); err == nil {
		t.Error("Expected error for unparseable data")
	}
}
