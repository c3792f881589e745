package hflow

import (
	"context"
	"fmt"
)

// AsyncStep is the unit of work of an asynchronous flow.
type AsyncStep interface {
	RunAsync(context.Context, *Context) *Promise[Outcome]
	fmt.Stringer
}

// AsyncStepFunc is an adapter to allow the use of ordinary functions as
// asynchronous steps.
type AsyncStepFunc func(context.Context, *Context) *Promise[Outcome]

// RunAsync calls f(ctx, c).
func (f AsyncStepFunc) RunAsync(ctx context.Context, c *Context) *Promise[Outcome] {
	return f(ctx, c)
}

func (f AsyncStepFunc) String() string {
	return "AsyncStepFunc"
}

type asyncHof struct {
	hof
}

// WrapAsync adapts fn into an asynchronous step. It follows the rules of
// [Wrap], except that fn runs on its own goroutine and receives the flow's
// context.Context, and that a returned [Awaiter] (such as a *Promise) is
// awaited before the result is recorded. If fn is not a function the step
// resolves to a cancellation.
func WrapAsync(fn any, args ArgSource, opts ...StepOption) AsyncStep {
	return &asyncHof{hof: newHof(fn, args, opts)}
}

// RunAsync executes the step.
func (h *asyncHof) RunAsync(ctx context.Context, c *Context) *Promise[Outcome] {
	if !h.fn.IsValid() {
		return Resolve(Cancel())
	}
	args := resolveArgs(h.args, c)
	return Go(ctx, func(ctx context.Context) (Outcome, error) {
		v, err := call(ctx, h.fn, args)
		if err != nil {
			return Cancel(), err
		}
		if a, ok := v.(Awaiter); ok && !Falsy(v) {
			if v, err = a.AwaitAny(ctx); err != nil {
				return Cancel(), err
			}
		}
		return h.record(c, v)
	})
}

func (h *asyncHof) String() string {
	return "WrapAsync(" + h.label() + ")"
}
