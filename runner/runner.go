package runner

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Each runs fn for every item concurrently, with at most limit goroutines at a time
// (no limit if limit <= 0), and waits for all of them to finish.
//
// The context given to fn is cancelled as soon as one of the calls fails, the first error is returned.
func Each[T any](parentCtx context.Context, limit int, items []T, fn func(ctx context.Context, item T) error) error {
	group, ctx := errgroup.WithContext(parentCtx)
	if limit > 0 {
		group.SetLimit(limit)
	}

	for _, item := range items {
		item := item
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, item)
		})
	}

	return group.Wait()
}
