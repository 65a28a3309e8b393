// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// WorkerPool bounds how many functions run at the same time.
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &WorkerPool{
		workerCount: workerCount,
	}
}

// RunAll executes every function regardless of failures and returns the joined errors,
// or nil when all of them succeeded.
func (wp *WorkerPool) RunAll(ctx context.Context, functions ...func() error) error {
	if len(functions) == 0 {
		return nil
	}

	var (
		mu   sync.Mutex
		errs []error
	)

	g := new(errgroup.Group)
	g.SetLimit(wp.workerCount)

	for _, fn := range functions {
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = fn()
			}
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()
	return errors.Join(errs...)
}

// Map applies fn to every input on the pool and returns the results in input order.
// The first error cancels the remaining work.
func Map[T, R any](ctx context.Context, wp *WorkerPool, inputs []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(inputs))
	if len(inputs) == 0 {
		return results, nil
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(wp.workerCount)

	for i, in := range inputs {
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			r, err := fn(groupCtx, in)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
