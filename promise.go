package hflow

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Promise is the pending result of a computation running on its own
// goroutine.
type Promise[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Awaiter is implemented by values that can be awaited without knowing
// their result type. Every *Promise is an Awaiter.
type Awaiter interface {
	AwaitAny(context.Context) (any, error)
}

// Go starts fn on a new goroutine and returns its promise. A panic in fn
// rejects the promise with a *RecoveredPanic.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Promise[T] {
	p := &Promise[T]{done: make(chan struct{})}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer capturePanic(&err)
		p.val, err = fn(gctx)
		return err
	})
	go func() {
		p.err = g.Wait()
		close(p.done)
	}()
	return p
}

// Resolve returns a promise already fulfilled with v.
func Resolve[T any](v T) *Promise[T] {
	p := &Promise[T]{done: make(chan struct{}), val: v}
	close(p.done)
	return p
}

// Reject returns a promise already rejected with err.
func Reject[T any](err error) *Promise[T] {
	p := &Promise[T]{done: make(chan struct{}), err: err}
	close(p.done)
	return p
}

// Done returns a channel closed once the promise settles.
func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

// Await blocks until the promise settles and returns its value and error.
// If ctx is done first, Await stops waiting and returns ctx.Err(); the
// computation itself keeps running.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.result()
	default:
	}
	select {
	case <-p.done:
		return p.result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (p *Promise[T]) result() (T, error) {
	if p.err != nil {
		var zero T
		return zero, p.err
	}
	return p.val, nil
}

// AwaitAny is Await with the value boxed in an any.
func (p *Promise[T]) AwaitAny(ctx context.Context) (any, error) {
	return p.Await(ctx)
}
