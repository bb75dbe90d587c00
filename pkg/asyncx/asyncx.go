// Package asyncx holds the small set of generic concurrency helpers used by the
// generation stages: fan-out with per-call outcomes and deadline enforcement.
package asyncx

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Result is the outcome of one settled call.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) OK() bool { return r.Err == nil }

// AllSettled runs every fn concurrently and returns one Result per fn, in
// input order. It never short-circuits. A panicking fn settles with an error.
func AllSettled[T any](ctx context.Context, fns ...func(context.Context) (T, error)) []Result[T] {
	results := make([]Result[T], len(fns))

	var wg sync.WaitGroup
	wg.Add(len(fns))
	for i, fn := range fns {
		go func() {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					results[i] = Result[T]{Err: fmt.Errorf("panic: %v", p)}
				}
			}()
			v, err := fn(ctx)
			results[i] = Result[T]{Value: v, Err: err}
		}()
	}
	wg.Wait()
	return results
}

// WithTimeout runs fn under a deadline of d. If fn does not return in time the
// caller gets context.DeadlineExceeded immediately; fn keeps its cancelled
// context and is expected to return soon after.
func WithTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if d <= 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	ch := make(chan Result[T], 1)
	go func() {
		v, err := fn(ctx)
		ch <- Result[T]{Value: v, Err: err}
	}()

	select {
	case r := <-ch:
		return r.Value, r.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
