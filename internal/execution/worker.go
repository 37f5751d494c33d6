package execution

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"wct/internal/domain"
)

// WorkerPool runs the fixtures of a category on a bounded number of workers
type WorkerPool struct {
	workers  int
	runner   FixtureRunner
	failFast bool
	progress Progress

	mu      sync.Mutex
	passed  int
	failed  int
	stopped bool // Set after the first failure when failFast is on
}

// NewWorkerPool creates a new WorkerPool. Fewer than one worker means one.
func NewWorkerPool(workers int, runner FixtureRunner, failFast bool) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	return &WorkerPool{
		workers:  workers,
		runner:   runner,
		failFast: failFast,
	}
}

// SetProgress sets the progress display and resets the running totals
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	wp.progress = progress
	wp.passed, wp.failed = 0, 0
}

// Workers returns the number of concurrent workers
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

type job struct {
	index   int
	fixture domain.Fixture
}

// Execute runs every fixture of cat and returns one outcome per fixture, in registry order.
// Fixtures that never start (cancellation, fail-fast) are recorded as execution failures.
func (wp *WorkerPool) Execute(ctx context.Context, cat domain.Category) []domain.FixtureOutcome {
	outcomes := make([]domain.FixtureOutcome, len(cat.Fixtures))
	ran := make([]bool, len(cat.Fixtures))
	if len(cat.Fixtures) == 0 {
		return outcomes
	}

	// Stopping the feed does not interrupt fixtures already running
	feedCtx, stopFeed := context.WithCancel(ctx)
	defer stopFeed()

	queue := make(chan job)
	go func() {
		defer close(queue)
		for i, f := range cat.Fixtures {
			if wp.isStopped() || feedCtx.Err() != nil {
				return
			}
			select {
			case <-feedCtx.Done():
				return
			case queue <- job{index: i, fixture: f}:
			}
		}
	}()

	// Workers never fail; the group only bounds their lifetime
	var g errgroup.Group
	for i := 1; i <= wp.workers; i++ {
		workerID := i
		g.Go(func() error {
			for j := range queue {
				// A job can still be handed over after fail-fast stopped the feed
				if wp.isStopped() {
					continue
				}
				outcome := wp.runner.RunFixture(ctx, workerID, cat, j.fixture)
				// Each index is written by exactly one worker
				outcomes[j.index] = outcome
				ran[j.index] = true
				if wp.record(outcome.Verdict) {
					stopFeed()
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	reason := "not run: fail-fast"
	if ctx.Err() != nil {
		reason = "not run: cancelled"
	}
	for i, f := range cat.Fixtures {
		if ran[i] {
			continue
		}
		outcomes[i] = domain.FixtureOutcome{
			ID:       f.ID,
			Path:     cat.FixturePath("", f.ID),
			Verdict:  domain.Fail,
			Result:   domain.ExecutionFailure(reason),
			Expected: cat.ExpectedExitCode,
		}
		wp.record(domain.Fail)
	}
	return outcomes
}

// record updates totals and progress; it returns true when the feed should stop
func (wp *WorkerPool) record(v domain.Verdict) bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if v == domain.Pass {
		wp.passed++
	} else {
		wp.failed++
		if wp.failFast {
			wp.stopped = true
		}
	}
	if wp.progress != nil {
		wp.progress.Update(wp.passed, wp.failed)
	}
	return wp.stopped
}

func (wp *WorkerPool) isStopped() bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.stopped
}
