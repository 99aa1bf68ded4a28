package itinerary

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// runInBatches fans out n independent collaborator calls with bounded
// concurrency and a short pause between batches, respecting third-party
// rate limits. Each task carries its own fallback, so fn never returns an
// error here and a slow call never aborts the batch.
func runInBatches(ctx context.Context, n, batchSize int, pause time.Duration, fn func(ctx context.Context, i int)) {
	if batchSize <= 0 {
		batchSize = 1
	}
	sem := semaphore.NewWeighted(int64(batchSize))
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			break // context cancelled
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			fn(ctx, i)
		}(i)

		if (i+1)%batchSize == 0 && i+1 < n && pause > 0 {
			time.Sleep(pause)
		}
	}
	wg.Wait()
}
