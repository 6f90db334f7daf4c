package agent

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lysyi3m/newsintel/app/analysis"
	"github.com/lysyi3m/newsintel/app/feed"
)

type CollectorInterface interface {
	Run(ctx context.Context, industries []string) ([]feed.Article, error)
}

type AnalyzerInterface interface {
	Run(ctx context.Context, articles []feed.Article, industryFocus string) (string, error)
}

type ReportBuilderInterface interface {
	Run(articles []feed.Article, analysisText, industryFocus string) string
}

var _ CollectorInterface = (*feed.Collector)(nil)
var _ AnalyzerInterface = (*analysis.Analyzer)(nil)
var _ ReportBuilderInterface = (*analysis.ReportBuilder)(nil)

// RunResult is the complete outcome of one collect-analyze-report cycle.
type RunResult struct {
	Industry       string
	Articles       []feed.Article
	Analysis       string
	Report         string
	ReportFile     string
	StartedAt      time.Time
	CollectionTime time.Duration
	AnalysisTime   time.Duration
}

// Agent coordinates the full pipeline: sequential feed collection, a single
// AI analysis call, and report generation.
type Agent struct {
	collector     CollectorInterface
	analyzer      AnalyzerInterface
	reportBuilder ReportBuilderInterface
	industries    []string
	saveReports   bool
	reportsDir    string
}

func NewAgent(collector CollectorInterface, analyzer AnalyzerInterface,
	reportBuilder ReportBuilderInterface, industries []string, saveReports bool, reportsDir string) *Agent {
	return &Agent{
		collector:     collector,
		analyzer:      analyzer,
		reportBuilder: reportBuilder,
		industries:    industries,
		saveReports:   saveReports,
		reportsDir:    reportsDir,
	}
}

func (a *Agent) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		Industry:  strings.Join(a.industries, ", "),
		StartedAt: time.Now(),
	}

	slog.Info("Run started", "industries", result.Industry)

	collectionStart := time.Now()
	articles, err := a.collector.Run(ctx, a.industries)
	if err != nil {
		return nil, fmt.Errorf("collection failed: %w", err)
	}
	result.CollectionTime = time.Since(collectionStart)
	result.Articles = articles

	// An empty batch never reaches the AI service
	if len(articles) == 0 {
		return nil, fmt.Errorf("no articles collected")
	}

	analysisStart := time.Now()
	analysisText, err := a.analyzer.Run(ctx, articles, result.Industry)
	if err != nil {
		return nil, err
	}
	result.AnalysisTime = time.Since(analysisStart)
	result.Analysis = analysisText

	result.Report = a.reportBuilder.Run(articles, analysisText, result.Industry)

	if a.saveReports {
		file, err := a.saveReport(result)
		if err != nil {
			slog.Warn("Failed to save report file", "error", err)
		} else {
			result.ReportFile = file
			slog.Info("Report saved", "file", file)
		}
	}

	slog.Info("Run completed", "articles", len(articles),
		"collection_time", result.CollectionTime.Round(time.Millisecond).String(),
		"analysis_time", result.AnalysisTime.Round(time.Millisecond).String())

	return result, nil
}

func (a *Agent) saveReport(result *RunResult) (string, error) {
	slug := strings.ToLower(strings.NewReplacer(", ", "-", " ", "-").Replace(result.Industry))
	name := fmt.Sprintf("news_report_%s_%s.txt", slug, result.StartedAt.Format("20060102_1504"))
	path := filepath.Join(a.reportsDir, name)

	if err := os.WriteFile(path, []byte(result.Report), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}
