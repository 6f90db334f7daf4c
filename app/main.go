package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/newsintel/app/agent"
	"github.com/lysyi3m/newsintel/app/analysis"
	"github.com/lysyi3m/newsintel/app/api"
	"github.com/lysyi3m/newsintel/app/cfg"
	"github.com/lysyi3m/newsintel/app/feed"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogging(appCfg.Debug)

	slog.Info("Starting NewsIntel", "version", appCfg.Version, "mode", appCfg.Mode)

	sourceCache := feed.NewSourceCache(appCfg.SourcesDir)
	if err := sourceCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Source configurations loaded", "count", sourceCache.GetSourceCount())

	httpClient := &http.Client{Timeout: 30 * time.Second}

	collector := feed.NewCollector(sourceCache, httpClient, feed.NewParser(),
		feed.NewContentExtractor(), appCfg.RequestsPerSecond, appCfg.UserAgent)

	provider := analysis.NewGeminiProvider(appCfg.GoogleAPIKey, appCfg.GeminiModel)
	analyzer := analysis.NewAnalyzer(provider)
	reportBuilder := analysis.NewReportBuilder(appCfg.GeminiModel, appCfg.EmailAddress)

	newsAgent := agent.NewAgent(collector, analyzer, reportBuilder,
		appCfg.Industries, appCfg.SaveReports, appCfg.ReportsDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch appCfg.Mode {
	case "run":
		runOnce(ctx, newsAgent, provider)
	case "check":
		runCheck(ctx, appCfg, provider, sourceCache, httpClient)
	case "serve":
		runServe(ctx, appCfg, newsAgent, sourceCache, provider)
	default:
		fmt.Fprintf(os.Stderr, "Unknown mode %q (expected run, check, or serve)\n", appCfg.Mode)
		os.Exit(2)
	}
}

// runOnce executes a single collect-analyze-report cycle and prints the report.
func runOnce(ctx context.Context, newsAgent *agent.Agent, provider analysis.Provider) {
	// Fail fast before any network activity
	if !provider.Available() {
		slog.Error("GOOGLE_API_KEY is required for run mode")
		os.Exit(1)
	}

	result, err := newsAgent.Run(ctx)
	if err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}

	fmt.Println(result.Report)

	if result.ReportFile != "" {
		fmt.Printf("Report saved: %s\n", result.ReportFile)
	}
}

func runCheck(ctx context.Context, appCfg *cfg.Cfg, provider analysis.Provider,
	sourceCache *feed.SourceCache, httpClient *http.Client) {
	checker := agent.NewChecker(appCfg.GoogleAPIKey, provider, sourceCache, httpClient, appCfg.UserAgent)
	if err := checker.Run(ctx); err != nil {
		os.Exit(1)
	}
}

// runServe starts the periodic updater and the HTTP API, shutting both down
// gracefully on SIGINT/SIGTERM.
func runServe(ctx context.Context, appCfg *cfg.Cfg, newsAgent *agent.Agent,
	sourceCache *feed.SourceCache, provider analysis.Provider) {
	if !provider.Available() {
		slog.Error("GOOGLE_API_KEY is required for serve mode")
		os.Exit(1)
	}

	store := agent.NewStore()
	updater := agent.NewUpdater(newsAgent, store, time.Duration(appCfg.UpdateInterval)*time.Second)
	updater.Start()
	defer updater.Stop()

	handler := api.NewHandler(store, sourceCache, updater)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
