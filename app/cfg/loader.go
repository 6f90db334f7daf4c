package cfg

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// AI service configuration
	GoogleAPIKey string `long:"google-api-key" env:"GOOGLE_API_KEY" description:"Google AI Studio API key for Gemini"`
	GeminiModel  string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-1.5-flash" description:"Gemini model used for analysis"`

	// Collection configuration
	SourcesDir        string  `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing news source configuration files"`
	Industries        string  `long:"industries" env:"INDUSTRY_FILTER" default:"technology" description:"Comma-separated industry keywords restricting which feed categories are fetched"`
	RequestsPerSecond float64 `long:"requests-per-second" env:"REQUESTS_PER_SECOND" default:"1" description:"Outbound feed request rate limit"`
	UserAgent         string  `long:"user-agent" env:"USER_AGENT" default:"NewsIntel/1.0 (+https://github.com/lysyi3m/newsintel)" description:"User agent string for HTTP requests"`

	// Serve mode configuration
	Port           string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey   string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	UpdateInterval int    `long:"update-interval" env:"UPDATE_INTERVAL" default:"3600" description:"Serve mode refresh interval in seconds"`

	// Application metadata
	EmailAddress string `long:"email-address" env:"EMAIL_ADDRESS" description:"Contact address shown in generated reports (informational)"`
	SaveReports  bool   `long:"save-reports" env:"SAVE_REPORTS" description:"Write generated reports to disk"`
	ReportsDir   string `long:"reports-dir" env:"REPORTS_DIR" default:"." description:"Directory for saved report files"`
	Timezone     string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Kolkata)"`
	Debug        bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Args struct {
		Mode string `positional-arg-name:"mode" description:"Mode of operation: run (default), check, serve"`
	} `positional-args:"yes"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Mode:              cmp.Or(raw.Args.Mode, "run"),
		GoogleAPIKey:      raw.GoogleAPIKey,
		GeminiModel:       raw.GeminiModel,
		SourcesDir:        raw.SourcesDir,
		Industries:        splitIndustries(raw.Industries),
		RequestsPerSecond: raw.RequestsPerSecond,
		UserAgent:         raw.UserAgent,
		Port:              raw.Port,
		APIAccessKey:      raw.APIAccessKey,
		UpdateInterval:    raw.UpdateInterval,
		EmailAddress:      raw.EmailAddress,
		SaveReports:       raw.SaveReports,
		ReportsDir:        raw.ReportsDir,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if cfg.RequestsPerSecond <= 0 {
		return nil, fmt.Errorf("requests-per-second must be positive, got %g", cfg.RequestsPerSecond)
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func splitIndustries(raw string) []string {
	parts := strings.Split(raw, ",")
	industries := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			industries = append(industries, strings.ToLower(trimmed))
		}
	}
	return industries
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
