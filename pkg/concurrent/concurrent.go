package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map applies fn to every element with at most workers goroutines, keeping
// the input order in the output. The first error cancels the remaining work
// and is returned.
func Map[T any, R any](ctx context.Context, in []T, workers int, fn func(context.Context, T) (R, error)) ([]R, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]R, len(in))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for idx, val := range in {
		idx, val := idx, val
		if gctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, val)
			if err != nil {
				return err
			}
			out[idx] = r
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return out, err
	}
	return out, ctx.Err()
}
