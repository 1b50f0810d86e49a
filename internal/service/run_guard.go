package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chinazagideon/mock-generator/internal/etl"
)

// ── Run Guard ──────────────────────────────────────────────
// At most one run per job at a time. Close waits on the guard so the
// store is not closed under a run that is still writing.

type runGuard struct {
	mu      sync.Mutex
	started map[string]time.Time // job ID -> run start
	wg      sync.WaitGroup
}

// acquire marks job as running. A second acquire for the same job fails
// with an error wrapping ErrJobRunning until release is called.
func (g *runGuard) acquire(job *etl.Job) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started == nil {
		g.started = make(map[string]time.Time)
	}
	if at, ok := g.started[job.ID]; ok {
		return fmt.Errorf("job %s (started %s ago): %w",
			job.Name, time.Since(at).Round(time.Millisecond), ErrJobRunning)
	}
	g.started[job.ID] = time.Now()
	g.wg.Add(1)
	return nil
}

func (g *runGuard) release(jobID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.started[jobID]; !ok {
		return
	}
	delete(g.started, jobID)
	g.wg.Done()
}

// active returns the IDs of jobs with a run in progress, sorted.
func (g *runGuard) active() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]string, 0, len(g.started))
	for id := range g.started {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// wait blocks until no run is in progress or ctx is done.
func (g *runGuard) wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
