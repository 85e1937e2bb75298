package usecase

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

// inBatches runs fn over items in sequential batches of size, concurrently
// within each batch. Results keep input order. Items not reached because ctx
// ended are left as the zero value.
func inBatches[T, R any](ctx context.Context, items []T, size int, fn func(context.Context, T) R) []R {
	out := make([]R, len(items))
	if size <= 0 {
		size = 1
	}
	for start := 0; start < len(items); start += size {
		if ctx.Err() != nil {
			break
		}
		end := min(start+size, len(items))

		p := pool.New().WithMaxGoroutines(end - start)
		for i := start; i < end; i++ {
			p.Go(func() {
				out[i] = fn(ctx, items[i])
			})
		}
		p.Wait()
	}
	return out
}
