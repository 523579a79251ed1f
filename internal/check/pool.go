package check

import (
	"context"
	"sync"

	"github.com/geradorbr/cnpj-tools/internal/cnpj"
)

// RunPool streams the lookup of ids through a fixed number of workers
// and returns the result channel. The channel is closed once every
// worker has drained; on context cancellation the feeder and workers
// stop promptly and no goroutine is left behind.
//
// Result order follows completion, not input order; the report carries
// the identifier in every row so order does not matter downstream.
func RunPool(ctx context.Context, provider Provider, ids []cnpj.CNPJ, workers int) <-chan Result {
	if workers < 1 {
		workers = 1
	}
	if workers > len(ids) && len(ids) > 0 {
		workers = len(ids)
	}

	jobs := make(chan cnpj.CNPJ)
	results := make(chan Result)

	go func() {
		defer close(jobs)
		for _, c := range ids {
			select {
			case jobs <- c:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				r := provider.Lookup(ctx, c)
				select {
				case results <- r:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}
