package feed

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// SourceCache loads news source definitions from per-source YAML files and
// keeps them in memory for the process lifetime. Sources are returned in
// filename order so collection output is deterministic.
type SourceCache struct {
	sourcesDir string
	cache      map[string]*Source
	order      []string
	mu         sync.RWMutex
}

func NewSourceCache(sourcesDir string) *SourceCache {
	return &SourceCache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Source),
	}
}

func (sc *SourceCache) Run() error {
	if _, err := os.Stat(sc.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(sc.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		source, err := sc.LoadSource(file)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source configuration loaded", "source", source.Name,
			"enabled", source.Settings.Enabled, "categories", len(source.Categories))
	}

	return nil
}

func (sc *SourceCache) LoadSource(file string) (*Source, error) {
	source, err := sc.parseSource(file)
	if err != nil {
		return nil, err
	}

	if err := sc.validateSource(source); err != nil {
		return nil, fmt.Errorf("invalid source %s: %w", file, err)
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if _, ok := sc.cache[source.Name]; !ok {
		sc.order = append(sc.order, source.Name)
	}
	sc.cache[source.Name] = source

	return source, nil
}

func (sc *SourceCache) GetSource(name string) (*Source, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	source, ok := sc.cache[name]
	if !ok {
		return nil, fmt.Errorf("source with name '%s' not found", name)
	}
	return source, nil
}

// GetSources returns all sources in load order.
func (sc *SourceCache) GetSources() []*Source {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	sources := make([]*Source, 0, len(sc.order))
	for _, name := range sc.order {
		sources = append(sources, sc.cache[name])
	}
	return sources
}

// GetEnabledSources returns enabled sources in load order.
func (sc *SourceCache) GetEnabledSources() []*Source {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	sources := make([]*Source, 0, len(sc.order))
	for _, name := range sc.order {
		if sc.cache[name].Settings.Enabled {
			sources = append(sources, sc.cache[name])
		}
	}
	return sources
}

func (sc *SourceCache) GetSourceCount() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.cache)
}

func (sc *SourceCache) parseSource(file string) (*Source, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var source Source
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if source.Settings.MaxItems == 0 {
		source.Settings.MaxItems = 8
	}
	if source.Settings.Timeout == 0 {
		source.Settings.Timeout = 10
	}

	return &source, nil
}

func (sc *SourceCache) validateSource(source *Source) error {
	if source == nil {
		return fmt.Errorf("source is nil")
	}

	requiredFields := map[string]string{
		"source name": source.Name,
		"base URL":    source.BaseURL,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	if !strings.HasPrefix(source.BaseURL, "http://") && !strings.HasPrefix(source.BaseURL, "https://") {
		return fmt.Errorf("base URL must be an absolute http(s) URL")
	}

	if len(source.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}

	seen := make(map[string]bool, len(source.Categories))
	for i, category := range source.Categories {
		if category.Name == "" {
			return fmt.Errorf("category at index %d has no name", i)
		}
		if category.Path == "" {
			return fmt.Errorf("category '%s' has no feed path", category.Name)
		}
		key := strings.ToLower(category.Name)
		if seen[key] {
			return fmt.Errorf("duplicate category '%s'", category.Name)
		}
		seen[key] = true
	}

	nonNegativeFields := map[string]int{
		"max items": source.Settings.MaxItems,
		"timeout":   source.Settings.Timeout,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	return nil
}
