package agent

import (
	"sync"
	"time"
)

// Store keeps the latest run result in memory. Nothing is persisted across
// process restarts.
type Store struct {
	mu        sync.RWMutex
	latest    *RunResult
	runCount  int
	lastError error
	lastRunAt time.Time
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) SetResult(result *RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = result
	s.runCount++
	s.lastError = nil
	s.lastRunAt = time.Now()
}

func (s *Store) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runCount++
	s.lastError = err
	s.lastRunAt = time.Now()
}

func (s *Store) GetResult() *RunResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Store) GetStats() (runCount int, lastRunAt time.Time, lastError error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runCount, s.lastRunAt, s.lastError
}
