package field

import (
	"context"
	"runtime"
	"sync"
)

// parallelFor executes fn over [0, n) in chunks across workers. Small
// ranges run inline. The first non-nil error wins; a canceled context
// is reported without waiting for remaining chunks to be scheduled.
func parallelFor(ctx context.Context, n, minChunk, workers int, fn func(start, end int) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if n <= minChunk || workers == 1 {
		return fn(0, n)
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers
	errs := make([]error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(idx, s, e int) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				errs[idx] = ctx.Err()
				return
			default:
			}
			errs[idx] = fn(s, e)
		}(w, start, end)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
