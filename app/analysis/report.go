package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/newsintel/app/feed"
)

const reportDivider = "==============================================================================="

// ReportBuilder renders the collected batch and the AI analysis into a
// plain-text executive briefing. The analysis text is embedded as-is.
type ReportBuilder struct {
	model        string
	emailAddress string
}

func NewReportBuilder(model, emailAddress string) *ReportBuilder {
	return &ReportBuilder{
		model:        model,
		emailAddress: emailAddress,
	}
}

func (r *ReportBuilder) Run(articles []feed.Article, analysis, industryFocus string) string {
	now := time.Now().In(time.Local)

	var b strings.Builder

	b.WriteString(reportDivider + "\n")
	b.WriteString("DAILY NEWS INTELLIGENCE - EXECUTIVE BRIEFING\n")
	b.WriteString(reportDivider + "\n\n")

	fmt.Fprintf(&b, "Report date:    %s\n", now.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "Industry focus: %s\n", strings.ToUpper(industryFocus))
	fmt.Fprintf(&b, "AI model:       %s\n\n", r.model)

	b.WriteString("ANALYSIS\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	if analysis != "" {
		b.WriteString(strings.TrimSpace(analysis) + "\n")
	} else {
		fmt.Fprintf(&b, "Collected %d %s articles from Indian business media.\n", len(articles), industryFocus)
	}
	b.WriteString("\n")

	b.WriteString("COLLECTION SUMMARY\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	fmt.Fprintf(&b, "Total articles: %d\n", len(articles))
	fmt.Fprintf(&b, "Sources:        %s\n", strings.Join(distinctSources(articles), ", "))
	fmt.Fprintf(&b, "Categories:     %s\n\n", strings.Join(distinctCategories(articles), ", "))

	b.WriteString("ARTICLES\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for i, article := range articles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, article.Title)
		fmt.Fprintf(&b, "   Source: %s | Category: %s\n", article.Source, article.Category)
		if article.Summary != "" {
			fmt.Fprintf(&b, "   %s\n", article.Summary)
		}
		fmt.Fprintf(&b, "   %s\n\n", article.Link)
	}

	b.WriteString(reportDivider + "\n")
	fmt.Fprintf(&b, "Generated automatically at %s", now.Format(time.RFC3339))
	if r.emailAddress != "" {
		fmt.Fprintf(&b, " | Contact: %s", r.emailAddress)
	}
	b.WriteString("\n")

	return b.String()
}

func distinctSources(articles []feed.Article) []string {
	return distinct(articles, func(a feed.Article) string { return a.Source })
}

func distinctCategories(articles []feed.Article) []string {
	return distinct(articles, func(a feed.Article) string { return a.Category })
}

func distinct(articles []feed.Article, key func(feed.Article) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, article := range articles {
		v := key(article)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}
