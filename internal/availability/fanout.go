package availability

import (
	"context"
	"sync"
	"time"
)

// fetchTask is one unit of best-effort fan-out work: fetch the busy periods
// of a single calendar connection.
type fetchTask struct {
	connectionID string
	run          func(ctx context.Context) ([]BusyPeriod, error)
}

// fetchFailure records a task that failed and was degraded to an empty
// contribution.
type fetchFailure struct {
	connectionID string
	err          error
}

// runAll executes all tasks concurrently and partitions the outcomes into
// successes and failures. A failed task never aborts the others; its error
// is collected so the caller can audit the degrade-on-failure policy in one
// place. When timeout is positive each task runs under its own deadline so
// one slow provider cannot stall the whole request.
func runAll(ctx context.Context, timeout time.Duration, tasks []fetchTask) ([][]BusyPeriod, []fetchFailure) {
	results := make([][]BusyPeriod, len(tasks))
	errs := make([]error, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task fetchTask) {
			defer wg.Done()

			taskCtx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				taskCtx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			results[i], errs[i] = task.run(taskCtx)
		}(i, task)
	}
	wg.Wait()

	var successes [][]BusyPeriod
	var failures []fetchFailure
	for i, task := range tasks {
		if errs[i] != nil {
			failures = append(failures, fetchFailure{
				connectionID: task.connectionID,
				err:          errs[i],
			})
			continue
		}
		successes = append(successes, results[i])
	}
	return successes, failures
}
