package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Updater re-runs the agent on a fixed interval for serve mode. Runs are
// strictly serialized: a tick that arrives while a run is in progress is
// skipped, never queued.
type Updater struct {
	agent    *Agent
	store    *Store
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	runMu    sync.Mutex
}

func NewUpdater(agent *Agent, store *Store, interval time.Duration) *Updater {
	ctx, cancel := context.WithCancel(context.Background())

	return &Updater{
		agent:    agent,
		store:    store,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (u *Updater) Start() {
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()

		ticker := time.NewTicker(u.interval)
		defer ticker.Stop()

		// First run at startup, then on the interval
		u.runOnce()

		for {
			select {
			case <-u.ctx.Done():
				return
			case <-ticker.C:
				u.runOnce()
			}
		}
	}()
}

func (u *Updater) Stop() {
	u.cancel()
	u.wg.Wait()
}

// TriggerRun starts a run in the background. Returns an error if a run is
// already in progress.
func (u *Updater) TriggerRun() error {
	if !u.runMu.TryLock() {
		return fmt.Errorf("a run is already in progress")
	}

	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		defer u.runMu.Unlock()
		u.execute()
	}()

	return nil
}

func (u *Updater) runOnce() {
	if !u.runMu.TryLock() {
		slog.Warn("Previous run still in progress, skipping scheduled run")
		return
	}
	defer u.runMu.Unlock()

	u.execute()
}

func (u *Updater) execute() {
	result, err := u.agent.Run(u.ctx)
	if err != nil {
		if u.ctx.Err() != nil {
			return
		}
		slog.Error("Scheduled run failed", "error", err)
		u.store.SetError(err)
		return
	}

	u.store.SetResult(result)
}
