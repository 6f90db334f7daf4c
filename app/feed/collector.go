package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Collector fetches the RSS feeds of every configured source/category pair
// matching the industry filter and produces normalized Article records.
// Execution is strictly sequential; a shared token-bucket limiter paces all
// outbound requests. A failing feed is logged and skipped, never fatal.
type Collector struct {
	sourceCache      *SourceCache
	httpClient       *http.Client
	parser           *Parser
	contentExtractor *ContentExtractor
	limiter          *rate.Limiter
	userAgent        string
}

func NewCollector(sourceCache *SourceCache, httpClient *http.Client, parser *Parser,
	contentExtractor *ContentExtractor, requestsPerSecond float64, userAgent string) *Collector {
	return &Collector{
		sourceCache:      sourceCache,
		httpClient:       httpClient,
		parser:           parser,
		contentExtractor: contentExtractor,
		limiter:          rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		userAgent:        userAgent,
	}
}

// SetLimiter replaces the request limiter. Used by tests to run unthrottled.
func (c *Collector) SetLimiter(limiter *rate.Limiter) {
	c.limiter = limiter
}

// Run collects articles from all enabled sources whose categories intersect
// the industry filter, in source-then-category order. The result is the
// plain union of the per-feed batches, not deduplicated.
func (c *Collector) Run(ctx context.Context, industries []string) ([]Article, error) {
	filter := newIndustryFilter(industries)

	var collected []Article
	feedCount := 0

	for _, source := range c.sourceCache.GetEnabledSources() {
		for _, category := range source.Categories {
			if !filter.matches(category.Name) {
				slog.Debug("Category not in industry filter, skipping",
					"source", source.Name, "category", category.Name)
				continue
			}

			feedCount++
			articles, err := c.collectFeed(ctx, source, category)
			if err != nil {
				if ctx.Err() != nil {
					return collected, ctx.Err()
				}
				slog.Warn("Feed collection failed, skipping",
					"source", source.Name, "category", category.Name, "error", err)
				continue
			}

			slog.Info("Feed collected", "source", source.Name,
				"category", category.Name, "articles", len(articles))
			collected = append(collected, articles...)
		}
	}

	slog.Info("Collection completed", "feeds", feedCount, "articles", len(collected))

	return collected, nil
}

func (c *Collector) collectFeed(ctx context.Context, source *Source, category SourceCategory) ([]Article, error) {
	feedURL := strings.TrimSuffix(source.BaseURL, "/") + category.Path

	data, err := c.fetch(ctx, feedURL, source.Settings.Timeout, "application/rss+xml, application/xml, text/xml")
	if err != nil {
		return nil, err
	}

	articles, err := c.parser.Run(data, source.Name, category.Name)
	if err != nil {
		return nil, err
	}

	if len(articles) > source.Settings.MaxItems {
		articles = articles[:source.Settings.MaxItems]
	}

	if source.Settings.ExtractContent && c.contentExtractor != nil {
		c.enrichArticles(ctx, articles, source.Settings.Timeout)
	}

	return articles, nil
}

// enrichArticles replaces entry summaries with readable text extracted from
// the article pages. Extraction failures keep the cleaned feed summary.
func (c *Collector) enrichArticles(ctx context.Context, articles []Article, timeout int) {
	for i := range articles {
		data, err := c.fetch(ctx, articles[i].Link, timeout, "text/html,application/xhtml+xml")
		if err != nil {
			slog.Debug("Article page fetch failed, keeping feed summary",
				"link", articles[i].Link, "error", err)
			continue
		}

		text, err := c.contentExtractor.Run(data)
		if err != nil {
			slog.Debug("Content extraction failed, keeping feed summary",
				"link", articles[i].Link, "error", err)
			continue
		}

		articles[i].Summary = text
	}
}

func (c *Collector) fetch(ctx context.Context, url string, timeout int, accept string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

type industryFilter map[string]bool

func newIndustryFilter(industries []string) industryFilter {
	filter := make(industryFilter, len(industries))
	for _, industry := range industries {
		filter[strings.ToLower(strings.TrimSpace(industry))] = true
	}
	return filter
}

func (f industryFilter) matches(category string) bool {
	return f[strings.ToLower(category)]
}
