package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lysyi3m/newsintel/app/feed"
)

const (
	// Caps keep the prompt inside the model's comfortable token budget
	maxArticlesPerAnalysis = 15
	maxPromptSummaryChars  = 200
)

type promptArticle struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	Category string `json:"category"`
}

// Analyzer serializes a collected article batch into a single prompt and
// forwards it to the AI provider. The response text is returned verbatim;
// remote failures propagate to the caller without retry.
type Analyzer struct {
	provider Provider
}

func NewAnalyzer(provider Provider) *Analyzer {
	return &Analyzer{
		provider: provider,
	}
}

func (a *Analyzer) Run(ctx context.Context, articles []feed.Article, industryFocus string) (string, error) {
	if len(articles) == 0 {
		return "", fmt.Errorf("no articles to analyze")
	}

	batch := articles
	if len(batch) > maxArticlesPerAnalysis {
		batch = batch[:maxArticlesPerAnalysis]
	}

	userPrompt, err := a.buildUserPrompt(batch, industryFocus)
	if err != nil {
		return "", fmt.Errorf("failed to build analysis prompt: %w", err)
	}

	slog.Info("Starting AI analysis", "provider", a.provider.Name(),
		"articles", len(batch), "industry", industryFocus)

	started := time.Now()
	resp, err := a.provider.Generate(ctx, Request{
		SystemPrompt: a.buildSystemPrompt(industryFocus),
		UserPrompt:   userPrompt,
	})
	if err != nil {
		return "", fmt.Errorf("AI analysis failed: %w", err)
	}

	slog.Info("AI analysis completed", "model", resp.Model,
		"duration", time.Since(started).Round(time.Millisecond).String())

	return resp.Content, nil
}

func (a *Analyzer) buildUserPrompt(articles []feed.Article, industryFocus string) (string, error) {
	payload := make([]promptArticle, 0, len(articles))
	for i, article := range articles {
		summary := article.Summary
		if runes := []rune(summary); len(runes) > maxPromptSummaryChars {
			summary = string(runes[:maxPromptSummaryChars])
		}

		payload = append(payload, promptArticle{
			ID:       i + 1,
			Title:    article.Title,
			Summary:  summary,
			Source:   article.Source,
			Category: article.Category,
		})
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze these %s news articles from Indian business media:\n\n", industryFocus)
	b.Write(encoded)
	b.WriteString("\n\nFocus on identifying trends, business implications, and actionable insights for executives.\n")

	return b.String(), nil
}

func (a *Analyzer) buildSystemPrompt(industryFocus string) string {
	return fmt.Sprintf(`You are an expert business analyst specializing in %[1]s industry intelligence for Indian markets.

Your task is to analyze news articles and provide strategic business insights.

ANALYSIS REQUIREMENTS:
1. Relevance Scoring: Rate each article's importance to %[1]s (1-10 scale)
2. Trend Identification: Identify emerging patterns and themes
3. Business Impact: Assess implications for companies and markets
4. Executive Summary: Create concise insights for leadership decision-making
5. Action Items: Suggest specific business actions or monitoring areas

Be specific and actionable in all insights.`, industryFocus)
}
