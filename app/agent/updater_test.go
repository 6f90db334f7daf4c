package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lysyi3m/newsintel/app/feed"
)

// blockingCollector holds every Run call until release is closed.
type blockingCollector struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (b *blockingCollector) Run(ctx context.Context, industries []string) ([]feed.Article, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()

	if b.release != nil {
		select {
		case <-b.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return testArticles(), nil
}

func (b *blockingCollector) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func newTestAgent(collector CollectorInterface) *Agent {
	return NewAgent(collector, &mockAnalyzer{analysis: "ok"}, &mockReportBuilder{}, []string{"technology"}, false, "")
}

// waitForRuns blocks until the store has recorded the expected number of runs.
func waitForRuns(t *testing.T, store *Store, expected int) {
	t.Helper()
	for i := 0; i < 500; i++ {
		if runCount, _, _ := store.GetStats(); runCount >= expected {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %d recorded runs", expected)
}

func TestUpdaterLifecycle(t *testing.T) {
	collector := &blockingCollector{}
	store := NewStore()
	updater := NewUpdater(newTestAgent(collector), store, 50*time.Millisecond)

	updater.Start()
	time.Sleep(120 * time.Millisecond)
	updater.Stop()

	// Startup run plus at least one scheduled run
	if collector.callCount() < 2 {
		t.Errorf("Expected at least 2 runs, got %d", collector.callCount())
	}

	if store.GetResult() == nil {
		t.Error("Expected a stored result after successful runs")
	}

	runCount, lastRunAt, lastError := store.GetStats()
	if runCount < 2 {
		t.Errorf("Expected at least 2 recorded runs, got %d", runCount)
	}
	if lastRunAt.IsZero() {
		t.Error("Expected last run time to be set")
	}
	if lastError != nil {
		t.Errorf("Expected no error, got %v", lastError)
	}
}

func TestUpdater_TriggerRun_WhileBusy(t *testing.T) {
	collector := &blockingCollector{release: make(chan struct{})}
	store := NewStore()
	updater := NewUpdater(newTestAgent(collector), store, time.Hour)

	if err := updater.TriggerRun(); err != nil {
		t.Fatalf("Unexpected error on first trigger: %v", err)
	}

	// Wait for the run to actually start
	for i := 0; i < 100 && collector.callCount() == 0; i++ {
		time.Sleep(time.Millisecond)
	}

	err := updater.TriggerRun()
	if err == nil {
		t.Error("Expected error while a run is in progress")
	} else if !strings.Contains(err.Error(), "already in progress") {
		t.Errorf("Unexpected error: %v", err)
	}

	close(collector.release)
	waitForRuns(t, store, 1)
	updater.Stop()

	if collector.callCount() != 1 {
		t.Errorf("Expected exactly 1 run, got %d", collector.callCount())
	}
	if store.GetResult() == nil {
		t.Error("Expected a stored result")
	}
}

type failingCollector struct{}

func (f *failingCollector) Run(ctx context.Context, industries []string) ([]feed.Article, error) {
	return nil, fmt.Errorf("all feeds unreachable")
}

func TestUpdater_RecordsErrors(t *testing.T) {
	store := NewStore()
	updater := NewUpdater(newTestAgent(&failingCollector{}), store, time.Hour)

	if err := updater.TriggerRun(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	waitForRuns(t, store, 1)
	updater.Stop()

	if store.GetResult() != nil {
		t.Error("Expected no stored result after a failed run")
	}

	runCount, _, lastError := store.GetStats()
	if runCount != 1 {
		t.Errorf("Expected 1 recorded run, got %d", runCount)
	}
	if lastError == nil {
		t.Error("Expected the run error to be recorded")
	}
}

func TestStore_SetResultClearsError(t *testing.T) {
	store := NewStore()

	store.SetError(fmt.Errorf("transient failure"))
	if _, _, lastError := store.GetStats(); lastError == nil {
		t.Fatal("Expected recorded error")
	}

	store.SetResult(&RunResult{Industry: "technology"})

	result := store.GetResult()
	if result == nil || result.Industry != "technology" {
		t.Error("Expected stored result")
	}

	runCount, _, lastError := store.GetStats()
	if runCount != 2 {
		t.Errorf("Expected 2 recorded runs, got %d", runCount)
	}
	if lastError != nil {
		t.Errorf("Expected error cleared by successful run, got %v", lastError)
	}
}
