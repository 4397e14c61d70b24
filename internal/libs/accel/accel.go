// Package accel provides utilities for running independent calls concurrently.
package accel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is a single unit of work in a batch
type Task func(ctx context.Context) error

// Batch runs tasks concurrently with a bounded number in flight
type Batch struct {
	size int
}

// NewBatch creates a new batch runner with the given concurrency limit
func NewBatch(size int) *Batch {
	if size <= 0 {
		size = 8
	}
	return &Batch{size: size}
}

// Size returns the concurrency limit
func (b *Batch) Size() int {
	return b.size
}

// Run executes every task and waits for all of them. A failing task does
// not stop the others; errs[i] holds the error of tasks[i].
func (b *Batch) Run(ctx context.Context, tasks ...Task) []error {
	errs := make([]error, len(tasks))

	var g errgroup.Group
	g.SetLimit(b.size)

	for i, task := range tasks {
		g.Go(func() error {
			errs[i] = task(ctx)
			return nil
		})
	}
	_ = g.Wait()

	return errs
}
