package agent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lysyi3m/newsintel/app/analysis"
	"github.com/lysyi3m/newsintel/app/feed"
)

// Checker verifies configuration and connectivity before a real run:
// API key shape, reachability of the configured feeds, and a minimal
// round-trip through the AI provider.
type Checker struct {
	apiKey      string
	provider    analysis.Provider
	sourceCache *feed.SourceCache
	parser      *feed.Parser
	httpClient  *http.Client
	userAgent   string
}

func NewChecker(apiKey string, provider analysis.Provider, sourceCache *feed.SourceCache,
	httpClient *http.Client, userAgent string) *Checker {
	return &Checker{
		apiKey:      apiKey,
		provider:    provider,
		sourceCache: sourceCache,
		parser:      feed.NewParser(),
		httpClient:  httpClient,
		userAgent:   userAgent,
	}
}

type checkResult struct {
	name string
	err  error
}

func (c *Checker) Run(ctx context.Context) error {
	checks := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"API key", c.checkAPIKey},
		{"News sources", c.checkSources},
		{"AI provider", c.checkProvider},
	}

	results := make([]checkResult, 0, len(checks))
	for _, check := range checks {
		err := check.fn(ctx)
		if err != nil {
			slog.Error("Check failed", "check", check.name, "error", err)
		} else {
			slog.Info("Check passed", "check", check.name)
		}
		results = append(results, checkResult{name: check.name, err: err})
	}

	fmt.Println("\nSystem check summary:")
	failed := 0
	for _, result := range results {
		status := "PASS"
		if result.err != nil {
			status = "FAIL"
			failed++
		}
		fmt.Printf("  [%s] %s\n", status, result.name)
	}
	fmt.Printf("%d/%d checks passed\n", len(results)-failed, len(results))

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func (c *Checker) checkAPIKey(_ context.Context) error {
	if c.apiKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is not set")
	}
	// Google AI Studio keys carry a fixed prefix
	if !strings.HasPrefix(c.apiKey, "AIza") {
		return fmt.Errorf("API key has unexpected format (should start with 'AIza')")
	}
	return nil
}

func (c *Checker) checkSources(ctx context.Context) error {
	sources := c.sourceCache.GetEnabledSources()
	if len(sources) == 0 {
		return fmt.Errorf("no enabled sources configured")
	}

	var failures []string
	for _, source := range sources {
		category := source.Categories[0]
		feedURL := strings.TrimSuffix(source.BaseURL, "/") + category.Path

		articles, err := c.fetchFeed(ctx, feedURL, source.Name, category.Name, source.Settings.Timeout)
		if err != nil {
			slog.Warn("Source check failed", "source", source.Name, "error", err)
			failures = append(failures, source.Name)
			continue
		}

		slog.Info("Source reachable", "source", source.Name,
			"category", category.Name, "articles", len(articles))
	}

	if len(failures) == len(sources) {
		return fmt.Errorf("all sources unreachable: %s", strings.Join(failures, ", "))
	}
	return nil
}

func (c *Checker) checkProvider(ctx context.Context) error {
	if !c.provider.Available() {
		return fmt.Errorf("provider %s is not configured", c.provider.Name())
	}

	resp, err := c.provider.Generate(ctx, analysis.Request{
		UserPrompt: "Hello! Can you confirm the AI connection is working?",
		MaxTokens:  128,
	})
	if err != nil {
		return fmt.Errorf("provider round-trip failed: %w", err)
	}
	if resp.Content == "" {
		return fmt.Errorf("provider returned an empty response")
	}
	return nil
}

func (c *Checker) fetchFeed(ctx context.Context, url, sourceName, category string, timeout int) ([]feed.Article, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

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

	return c.parser.Run(data, sourceName, category)
}
