package generate

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Runner executes generation jobs in the background with bounded
// concurrency. Submitting always succeeds immediately; jobs queue on the
// semaphore. Each job gets its own timeout context detached from the HTTP
// request that spawned it.
type Runner struct {
	sem     *semaphore.Weighted
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewRunner(maxConcurrent int, timeout time.Duration) *Runner {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Runner{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		timeout: timeout,
	}
}

// Go schedules fn as a background job. The name is only used for logging.
func (r *Runner) Go(name string, fn func(ctx context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		if err := r.sem.Acquire(context.Background(), 1); err != nil {
			log.Printf("[Jobs] Failed to acquire slot for %s: %v", name, err)
			return
		}
		defer r.sem.Release(1)

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		start := time.Now()
		log.Printf("[Jobs] Starting job %s", name)
		fn(ctx)
		log.Printf("[Jobs] Job %s finished in %s", name, time.Since(start))
	}()
}

// Wait blocks until every submitted job has finished. Used by tests and by
// graceful shutdown.
func (r *Runner) Wait() {
	r.wg.Wait()
}
